// =============================================================================
// Scan to CSV - CSV Record Writer
// =============================================================================
//
// This module builds the fixed seven-field record for one scan and encodes it
// for the downstream ingestion system.
//
// RECORD LAYOUT (one line, CRLF terminated, every field double-quoted):
//   "date","time","transactionNo","shopNo","posNo","casherCode","casherName"
//
// ENCODING:
//   Downstream ingestion reads Shift_JIS. Text that cannot be represented in
//   Shift_JIS is an encoding error, not silently replaced.
//
// =============================================================================

package csvwriter

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/scan-to-csv/internal/types"
)

// Layouts for the date and time fields.
const (
	DateLayout = "2006/01/02"
	TimeLayout = "15:04:05"
)

// =============================================================================
// RECORD FORMATTING
// =============================================================================

// BuildRecord builds the record for one scan.
//
// PARAMETERS:
//   - scanInput: The raw operator input. Surrounding whitespace is trimmed.
//   - op: The operator context, copied verbatim.
//   - now: The capture instant. It is formatted in its own location, so
//     callers pass time.Now() to get host local time.
//
// RETURNS:
//   - The record.
//   - A types.KindEmptyScanInput error if the trimmed input is empty.
func BuildRecord(scanInput string, op types.OperatorContext, now time.Time) (types.Record, error) {
	transactionNo := strings.TrimSpace(scanInput)
	if transactionNo == "" {
		return types.Record{}, types.NewError(types.KindEmptyScanInput, "build record", nil)
	}

	return types.Record{
		Date:          now.Format(DateLayout),
		Time:          now.Format(TimeLayout),
		TransactionNo: transactionNo,
		ShopNo:        op.ShopNo,
		PosNo:         op.PosNo,
		CasherCode:    op.CasherCode,
		CasherName:    op.CasherName,
		CreatedAt:     now,
	}, nil
}

// =============================================================================
// ENCODING
// =============================================================================

// EncodeRecord renders rec as a line and converts it to Shift_JIS bytes.
func EncodeRecord(rec types.Record) ([]byte, error) {
	return EncodeShiftJIS(rec.Line())
}

// EncodeShiftJIS converts UTF-8 text to Shift_JIS.
func EncodeShiftJIS(s string) ([]byte, error) {
	encoded, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode shift_jis: %w", err)
	}
	return encoded, nil
}

// DecodeShiftJIS converts Shift_JIS bytes back to UTF-8 text.
func DecodeShiftJIS(b []byte) (string, error) {
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("decode shift_jis: %w", err)
	}
	return string(decoded), nil
}
