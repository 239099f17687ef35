package artifact

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/scan-to-csv/internal/csvwriter"
	"github.com/ginjaninja78/scan-to-csv/internal/logging"
	"github.com/ginjaninja78/scan-to-csv/internal/types"
	"github.com/ginjaninja78/scan-to-csv/pkg/utils"
)

var stamp = time.Date(2024, time.January, 15, 9, 30, 0, 45_000_000, time.Local)

func sampleRecord(t *testing.T) types.Record {
	t.Helper()
	rec, err := csvwriter.BuildRecord("ABC123", types.OperatorContext{
		ShopNo: "001", PosNo: "01", CasherCode: "C01", CasherName: "田中",
	}, stamp)
	require.NoError(t, err)
	return rec
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "J20240115093000045.csv", FileName(stamp))
	assert.Equal(t, "J20240115093000000.csv", FileName(stamp.Truncate(time.Second)))
}

func TestParseFileName(t *testing.T) {
	got, err := ParseFileName("J20240115093000045.csv", time.Local)
	require.NoError(t, err)
	assert.True(t, got.Equal(stamp))

	for _, bad := range []string{"J2024.csv", "K20240115093000045.csv", "J20240115093000045.txt", "J2024011509300004x.csv"} {
		_, err := ParseFileName(bad, time.Local)
		assert.Error(t, err, bad)
	}
}

func TestWriteTempRecord(t *testing.T) {
	fsys := memfs.New()
	m := New(fsys, "", WithClock(func() time.Time { return stamp }), WithLogger(logging.Discard()))

	rec := sampleRecord(t)
	a, err := m.WriteTempRecord(rec)
	require.NoError(t, err)

	assert.Equal(t, "J20240115093000045.csv", a.Name)
	assert.Equal(t, DefaultDir, a.Dir)
	assert.Equal(t, stamp, a.CreatedAt)

	b, err := util.ReadFile(fsys, a.Path())
	require.NoError(t, err)

	want, err := csvwriter.EncodeRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, want, b)

	text, err := csvwriter.DecodeShiftJIS(b)
	require.NoError(t, err)
	assert.Equal(t, `"2024/01/15","09:30:00","ABC123","001","01","C01","田中"`+"\r\n", text)
}

func TestWriteTempRecordNamedFromCaptureTime(t *testing.T) {
	later := stamp.Add(time.Hour)
	m := New(memfs.New(), "", WithClock(func() time.Time { return later }), WithLogger(logging.Discard()))

	a, err := m.WriteTempRecord(sampleRecord(t))
	require.NoError(t, err)
	assert.Equal(t, "J20240115093000045.csv", a.Name)
	assert.True(t, a.CreatedAt.Equal(stamp))

	rec := sampleRecord(t)
	rec.CreatedAt = time.Time{}
	a, err = m.WriteTempRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, FileName(later), a.Name, "falls back to the clock")
}

func TestWriteTempRecordSameMillisecondOverwrites(t *testing.T) {
	fsys := memfs.New()
	m := New(fsys, "TempCsv", WithClock(func() time.Time { return stamp }), WithLogger(logging.Discard()))

	first := sampleRecord(t)
	second := first
	second.TransactionNo = "XYZ999"

	a1, err := m.WriteTempRecord(first)
	require.NoError(t, err)
	a2, err := m.WriteTempRecord(second)
	require.NoError(t, err)
	assert.Equal(t, a1.Path(), a2.Path())

	files, err := utils.DiscoverFiles(fsys, "TempCsv", "")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	b, err := util.ReadFile(fsys, a2.Path())
	require.NoError(t, err)
	assert.Contains(t, string(b), "XYZ999")
}

func TestWriteTempRecordIOFailure(t *testing.T) {
	root := t.TempDir()
	// A regular file where the temp directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(root, "TempCsv"), nil, 0o644))

	m := New(utils.OpenDir(root), "TempCsv", WithLogger(logging.Discard()))
	_, err := m.WriteTempRecord(sampleRecord(t))
	require.Error(t, err)
	assert.Equal(t, types.KindIOFailure, types.KindOf(err))
}

func TestWriteTempRecordUnencodable(t *testing.T) {
	fsys := memfs.New()
	m := New(fsys, "TempCsv", WithLogger(logging.Discard()))

	rec := sampleRecord(t)
	rec.CasherName = "🙂"

	_, err := m.WriteTempRecord(rec)
	require.Error(t, err)
	assert.Equal(t, types.KindIOFailure, types.KindOf(err))

	files, err := utils.DiscoverFiles(fsys, "TempCsv", "")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFromPath(t *testing.T) {
	a := FromPath("TempCsv", "J20240115093000045.csv")
	assert.True(t, a.CreatedAt.Equal(stamp))

	other := FromPath("TempCsv", "manual.csv")
	assert.True(t, other.CreatedAt.IsZero())
}
