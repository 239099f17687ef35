// =============================================================================
// Scan to CSV - Logging
// =============================================================================
//
// This module builds the application logger: a log/slog text handler writing
// to a file sink that is named by date.
//
// FILE NAMING:
//   <dir>/<name>_<suffix>.log, where suffix follows FileFormat:
//     yyyymmdd          -> TraceLog_20240115.log
//     yyyymmddhhmmss    -> TraceLog_20240115093000.log
//     yyyymmddhhmmssfff -> TraceLog_20240115093000123.log
//     none              -> TraceLog.log
//
// WRITE MODES:
//   append : every line is appended to the current file
//   over   : the first line written to a file by this process truncates it,
//            later lines append
//
// FAILURES:
//   The sink never fails the caller's operation. slog drops handler errors,
//   so an unwritable log directory only loses log lines.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the logger.
type Options struct {
	// Dir is the directory holding log files. It is created on first write.
	Dir string

	// FileName is the base file name without suffix or extension.
	FileName string

	// FileFormat selects the date suffix (see package comment).
	FileFormat string

	// WriteMode is "append" or "over".
	WriteMode string

	// Level is "debug", "info", "warn" or "error".
	Level string

	// Encoding is "shift-jis" or "utf-8".
	Encoding string

	// Tee, if set, also receives every log line (e.g. stderr with --verbose).
	Tee io.Writer

	// Now overrides the clock used for file names.
	Now func() time.Time
}

// New builds a logger from opts.
func New(opts Options) (*slog.Logger, error) {
	var level slog.Level
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
	}

	sink := NewFileSink(opts)

	var w io.Writer = sink
	if opts.Tee != nil {
		w = &teeWriter{primary: sink, secondary: opts.Tee}
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// FILE SINK
// =============================================================================

// FileSink is an io.Writer that appends each write to the current dated log
// file. The file is opened and closed on every write so the name follows the
// clock and no handle is held between scans.
type FileSink struct {
	dir      string
	name     string
	format   string
	truncate bool
	sjis     bool
	now      func() time.Time

	mu        sync.Mutex
	truncated map[string]bool
}

// NewFileSink builds the sink described by opts.
func NewFileSink(opts Options) *FileSink {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	name := opts.FileName
	if name == "" {
		name = "TraceLog"
	}
	return &FileSink{
		dir:       opts.Dir,
		name:      name,
		format:    strings.ToLower(opts.FileFormat),
		truncate:  strings.EqualFold(opts.WriteMode, "over"),
		sjis:      !strings.EqualFold(opts.Encoding, "utf-8"),
		now:       now,
		truncated: make(map[string]bool),
	}
}

// Path returns the file the next write goes to.
func (s *FileSink) Path() string {
	return filepath.Join(s.dir, FileName(s.name, s.format, s.now()))
}

// Write implements io.Writer.
func (s *FileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, err
	}

	path := s.Path()
	flag := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	if s.truncate && !s.truncated[path] {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		s.truncated[path] = true
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var w io.Writer = f
	if s.sjis {
		tw := transform.NewWriter(f, encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder()))
		defer tw.Close()
		w = tw
	}

	if _, err := w.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// FileName returns the log file name for base at t.
func FileName(base, format string, t time.Time) string {
	switch format {
	case "yyyymmdd", "":
		return base + "_" + t.Format("20060102") + ".log"
	case "yyyymmddhhmmss":
		return base + "_" + t.Format("20060102150405") + ".log"
	case "yyyymmddhhmmssfff":
		return base + "_" + t.Format("20060102150405") + fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond)) + ".log"
	default:
		return base + ".log"
	}
}

// teeWriter writes to primary and secondary. A failure of either is
// reported but does not stop the other.
type teeWriter struct {
	primary   io.Writer
	secondary io.Writer
}

func (t *teeWriter) Write(p []byte) (int, error) {
	_, errSecondary := t.secondary.Write(p)
	if _, err := t.primary.Write(p); err != nil {
		return 0, err
	}
	if errSecondary != nil {
		return 0, errSecondary
	}
	return len(p), nil
}
