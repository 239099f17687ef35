package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/scan-to-csv/internal/messages"
	"github.com/ginjaninja78/scan-to-csv/internal/types"
)

// ============================================================================
// Helpers
// ============================================================================

type env struct {
	work   string
	dest   string
	config string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	e := &env{
		work:   filepath.Join(root, "work"),
		dest:   filepath.Join(root, "dest"),
		config: filepath.Join(root, "config.yaml"),
	}
	e.writeConfig(t, e.dest)
	return e
}

func (e *env) writeConfig(t *testing.T, dest string) {
	t.Helper()
	yaml := fmt.Sprintf(`network:
  dest_directory: %q
csv_data:
  shop_no: "001"
  pos_no: "01"
  casher_code: "C01"
  casher_name: "Tanaka"
app:
  work_dir: %q
  log_encoding: utf-8
`, filepath.ToSlash(dest), e.work)
	require.NoError(t, os.WriteFile(e.config, []byte(yaml), 0o644))
}

func (e *env) tempFiles(t *testing.T) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(e.work, "TempCsv", "J*.csv"))
	require.NoError(t, err)
	return matches
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// ============================================================================
// scan
// ============================================================================

func TestScanArgumentDelivers(t *testing.T) {
	e := newEnv(t)

	out, _, err := execute(t, "", "--config", e.config, "scan", "ABC123")
	require.NoError(t, err)
	assert.Contains(t, out, messages.Text(messages.Info002))

	delivered, err := filepath.Glob(filepath.Join(e.dest, "J*.csv"))
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Empty(t, e.tempFiles(t))

	logs, err := filepath.Glob(filepath.Join(e.work, "log", "TraceLog*.log"))
	require.NoError(t, err)
	assert.NotEmpty(t, logs)
}

func TestScanStdinTreatsEachLineAsTrigger(t *testing.T) {
	e := newEnv(t)

	out, _, err := execute(t, "ABC123\n\nDEF456\n", "--config", e.config, "scan")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, messages.Text(messages.Info002)))
	assert.Equal(t, 1, strings.Count(out, messages.Text(messages.Err004)))
	assert.Equal(t, 4, strings.Count(out, scanPrompt), "prompt shown initially and after each trigger")
}

func TestScanFailureKeepsTempAndRecoverDelivers(t *testing.T) {
	e := newEnv(t)
	blocker := filepath.Join(t.TempDir(), "offline")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	e.writeConfig(t, filepath.Join(blocker, "csv"))

	out, _, err := execute(t, "", "--config", e.config, "scan", "ABC123")
	require.Error(t, err)
	assert.Contains(t, out, "["+messages.Err006.String()+"]")
	require.Len(t, e.tempFiles(t), 1)

	e.writeConfig(t, e.dest)
	out, _, err = execute(t, "", "--config", e.config, "recover", "--deliver=true")
	require.NoError(t, err)
	assert.Contains(t, out, "delivered")
	assert.Empty(t, e.tempFiles(t))

	delivered, err := filepath.Glob(filepath.Join(e.dest, "J*.csv"))
	require.NoError(t, err)
	assert.Len(t, delivered, 1)
}

func TestMissingConfig(t *testing.T) {
	_, errOut, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "scan", "ABC123")
	require.Error(t, err)
	assert.Equal(t, types.KindConfigNotFound, types.KindOf(err))
	assert.Contains(t, errOut, messages.Text(messages.Err001))
}

// ============================================================================
// validate / report
// ============================================================================

func TestValidate(t *testing.T) {
	e := newEnv(t)

	out, _, err := execute(t, "", "--config", e.config, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	e.writeConfig(t, `relative\path`)
	out, _, err = execute(t, "", "--config", e.config, "validate")
	require.Error(t, err)
	assert.Contains(t, out, messages.Text(messages.Err003))
}

func TestReport(t *testing.T) {
	e := newEnv(t)
	_, _, err := execute(t, "", "--config", e.config, "scan", "ABC123")
	require.NoError(t, err)

	report := filepath.Join(t.TempDir(), "scans.xlsx")
	out, _, err := execute(t, "", "--config", e.config, "report", "--out", report, "--dir", e.dest)
	require.NoError(t, err)
	assert.Contains(t, out, "1 records from 1 files")

	f, err := excelize.OpenFile(report)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Scans")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ABC123", rows[1][3])
	assert.Equal(t, "001", rows[1][4])
}

// ============================================================================
// version
// ============================================================================

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Scan to CSV")
	assert.Contains(t, out, "Version:    "+resolvedVersion())

	prev := Version
	Version = "9.9.9"
	t.Cleanup(func() { Version = prev })
	assert.Equal(t, "9.9.9", resolvedVersion())
}
