// =============================================================================
// Scan to CSV - Artifact Parser Module
// =============================================================================
//
// This module reads capture files back into records. It is used by the
// maintenance commands to inspect temp artifacts left behind by failed
// deliveries and to summarize delivered files.
//
// FILE FORMAT:
//   Shift_JIS text, one or more CRLF-terminated lines of exactly seven
//   double-quoted fields (see csvwriter). Fields are not escaped when they
//   are written, so the reader is lenient about stray quotes.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/scan-to-csv/internal/csvwriter"
	"github.com/ginjaninja78/scan-to-csv/internal/types"
	"github.com/ginjaninja78/scan-to-csv/pkg/utils"
)

// ErrEmptyFile is returned for a capture file with no records.
var ErrEmptyFile = errors.New("capture file is empty")

// =============================================================================
// PARSED FILE
// =============================================================================

// File is one parsed capture file.
type File struct {
	// Path is the file path on the scanned filesystem.
	Path string

	// Records holds the records in file order.
	Records []types.Record

	// Err is set when the file could not be read or parsed. Records is
	// then empty.
	Err error
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads Shift_JIS capture lines from r.
//
// RETURNS:
//   - The records, in order. CreatedAt is rebuilt from the date and time
//     fields in loc, at second precision.
//   - An error naming the offending line if a line does not have seven
//     fields, or ErrEmptyFile if there are no lines.
func Parse(r io.Reader, loc *time.Location) ([]types.Record, error) {
	reader := csv.NewReader(transform.NewReader(bufio.NewReader(r), japanese.ShiftJIS.NewDecoder()))
	configureReader(reader)

	var records []types.Record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		records = append(records, toRecord(fields, loc))
	}

	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	return records, nil
}

// configureReader sets up the CSV reader for the capture format.
func configureReader(reader *csv.Reader) {
	reader.Comma = ','
	reader.FieldsPerRecord = types.FieldCount
	// Embedded quotes are written unescaped.
	reader.LazyQuotes = true
}

func toRecord(fields []string, loc *time.Location) types.Record {
	rec := types.Record{
		Date:          fields[0],
		Time:          fields[1],
		TransactionNo: fields[2],
		ShopNo:        fields[3],
		PosNo:         fields[4],
		CasherCode:    fields[5],
		CasherName:    fields[6],
	}
	if t, err := time.ParseInLocation(csvwriter.DateLayout+" "+csvwriter.TimeLayout, rec.Date+" "+rec.Time, loc); err == nil {
		rec.CreatedAt = t
	}
	return rec
}

// ParseFile opens and parses one capture file on fsys.
func ParseFile(fsys billy.Basic, filePath string, loc *time.Location) ([]types.Record, error) {
	f, err := fsys.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	records, err := Parse(f, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filePath), err)
	}
	return records, nil
}

// ParseDir parses every capture file in dir, sorted by name.
//
// PARAMETERS:
//   - fsys: The filesystem to scan.
//   - dir: The directory, relative to the filesystem root.
//   - pattern: A file name pattern; empty means utils.ArtifactPattern.
//
// RETURNS:
//   - One File per matching name. A file that fails to parse is returned
//     with Err set and does not stop the scan.
//   - An error only if the directory itself cannot be listed.
func ParseDir(fsys billy.Filesystem, dir, pattern string, loc *time.Location) ([]File, error) {
	paths, err := utils.DiscoverFiles(fsys, dir, pattern)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		records, err := ParseFile(fsys, p, loc)
		files = append(files, File{Path: p, Records: records, Err: err})
	}
	return files, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// CountRecords returns the number of records across files, ignoring files
// that failed to parse.
func CountRecords(files []File) int {
	n := 0
	for _, f := range files {
		n += len(f.Records)
	}
	return n
}

// Failed returns the files that could not be parsed.
func Failed(files []File) []File {
	var failed []File
	for _, f := range files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}
