// =============================================================================
// Scan to CSV - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvwriter  (builds Record)
//   - artifact   (writes Record, returns TempArtifact)
//   - delivery   (relocates TempArtifact)
//   - workflow   (sequences all of the above)
//
// =============================================================================

package types

import (
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// OPERATOR CONTEXT
// =============================================================================

// OperatorContext holds the four identity fields attached to every record.
// The values come from configuration and are written verbatim; empty values
// are allowed and produce empty quoted fields.
type OperatorContext struct {
	// ShopNo is the shop (business office) code.
	ShopNo string

	// PosNo is the register / work location number.
	PosNo string

	// CasherCode is the operator ID.
	CasherCode string

	// CasherName is the operator display name.
	CasherName string
}

// =============================================================================
// CSV RECORD
// =============================================================================

// FieldCount is the number of fields in every record.
const FieldCount = 7

// LineTerminator ends every record line.
const LineTerminator = "\r\n"

// Record is one captured scan. One record is one line is one file.
type Record struct {
	// Date is the capture date formatted as YYYY/MM/DD.
	Date string

	// Time is the capture time formatted as HH:MM:SS.
	Time string

	// TransactionNo is the trimmed scan input.
	TransactionNo string

	ShopNo     string
	PosNo      string
	CasherCode string
	CasherName string

	// CreatedAt is the full-precision capture instant. It is not written to
	// the CSV line; the file materializer uses it for the file name.
	CreatedAt time.Time
}

// Fields returns the seven CSV fields in their fixed order.
func (r Record) Fields() []string {
	return []string{
		r.Date,
		r.Time,
		r.TransactionNo,
		r.ShopNo,
		r.PosNo,
		r.CasherCode,
		r.CasherName,
	}
}

// Line renders the record as a CSV line: every field wrapped in double
// quotes, comma-joined and terminated by CRLF. Embedded quotes are not
// escaped.
func (r Record) Line() string {
	fields := r.Fields()
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, ",") + LineTerminator
}

// =============================================================================
// TEMP ARTIFACT
// =============================================================================

// TempArtifact is the intermediate CSV file written before delivery.
type TempArtifact struct {
	// Name is the bare file name, e.g. J20240115093000123.csv.
	Name string

	// Dir is the directory holding the file, relative to the working
	// location's filesystem root.
	Dir string

	// CreatedAt is the instant encoded in Name.
	CreatedAt time.Time
}

// Path returns Dir joined with Name.
func (a TempArtifact) Path() string {
	return filepath.Join(a.Dir, a.Name)
}

// =============================================================================
// DELIVERY RECEIPT
// =============================================================================

// Receipt describes a successful delivery.
type Receipt struct {
	// Destination is the full path of the delivered file.
	Destination string

	// TempRemoved is false when the copy succeeded but the temp artifact
	// could not be deleted.
	TempRemoved bool
}
