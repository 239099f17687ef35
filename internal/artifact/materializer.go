// Package artifact writes captured records to temp files in the working
// location, one record per file, ready for delivery.
package artifact

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/ginjaninja78/scan-to-csv/internal/csvwriter"
	"github.com/ginjaninja78/scan-to-csv/internal/types"
	"github.com/ginjaninja78/scan-to-csv/pkg/utils"
)

// DefaultDir is the temp subdirectory of the working location.
const DefaultDir = "TempCsv"

const (
	namePrefix = "J"
	nameExt    = ".csv"
	nameLayout = "20060102150405"
)

// Materializer writes records as Shift_JIS temp files.
type Materializer struct {
	fs     billy.Filesystem
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithClock overrides the clock used for records without a CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Materializer) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Materializer) { m.logger = l }
}

// New returns a Materializer writing into dir on fsys. fsys is rooted at the
// working location.
func New(fsys billy.Filesystem, dir string, opts ...Option) *Materializer {
	if dir == "" {
		dir = DefaultDir
	}
	m := &Materializer{
		fs:     fsys,
		dir:    dir,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Filesystem returns the working-location filesystem.
func (m *Materializer) Filesystem() billy.Filesystem { return m.fs }

// Dir returns the temp directory relative to the filesystem root.
func (m *Materializer) Dir() string { return m.dir }

// WriteTempRecord writes rec to a new temp file named after rec.CreatedAt,
// or the current time if the record carries none. An existing file with the same name is overwritten. Any failure is a
// types.KindIOFailure error and leaves whatever was written in place.
func (m *Materializer) WriteTempRecord(rec types.Record) (types.TempArtifact, error) {
	const op = "write temp record"

	data, err := csvwriter.EncodeRecord(rec)
	if err != nil {
		return types.TempArtifact{}, types.NewError(types.KindIOFailure, op, err)
	}

	if err := utils.EnsureDir(m.fs, m.dir); err != nil {
		return types.TempArtifact{}, types.NewError(types.KindIOFailure, op, err)
	}

	now := rec.CreatedAt
	if now.IsZero() {
		now = m.now()
	}
	a := types.TempArtifact{
		Name:      FileName(now),
		Dir:       m.dir,
		CreatedAt: now,
	}

	if err := util.WriteFile(m.fs, a.Path(), data, 0o644); err != nil {
		return types.TempArtifact{}, types.NewError(types.KindIOFailure, op, err)
	}

	m.logger.Debug("temp record written",
		"source", "artifact", "file", a.Path(), "bytes", len(data))
	return a, nil
}

// FileName returns the artifact name for t: J + yyyyMMddHHmmss + zero-padded
// milliseconds + .csv.
func FileName(t time.Time) string {
	return fmt.Sprintf("%s%s%03d%s", namePrefix, t.Format(nameLayout), t.Nanosecond()/int(time.Millisecond), nameExt)
}

// ParseFileName recovers the capture time from an artifact name, in loc.
func ParseFileName(name string, loc *time.Location) (time.Time, error) {
	stamp, ok := strings.CutPrefix(name, namePrefix)
	if ok {
		stamp, ok = strings.CutSuffix(stamp, nameExt)
	}
	if !ok || len(stamp) != len(nameLayout)+3 {
		return time.Time{}, fmt.Errorf("not an artifact name: %q", name)
	}

	t, err := time.ParseInLocation(nameLayout+".000", stamp[:len(nameLayout)]+"."+stamp[len(nameLayout):], loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("not an artifact name: %q: %w", name, err)
	}
	return t, nil
}

// FromPath rebuilds the TempArtifact for an existing file in dir.
func FromPath(dir, name string) types.TempArtifact {
	a := types.TempArtifact{Name: name, Dir: dir}
	if t, err := ParseFileName(name, time.Local); err == nil {
		a.CreatedAt = t
	}
	return a
}
