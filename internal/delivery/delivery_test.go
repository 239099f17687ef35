package delivery

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/scan-to-csv/internal/logging"
	"github.com/ginjaninja78/scan-to-csv/internal/types"
	"github.com/ginjaninja78/scan-to-csv/pkg/utils"
)

// ============================================================================
// Test helpers
// ============================================================================

type stubSource map[string]string

func (s stubSource) Lookup(section, key, def string) string {
	if v, ok := s[section+"."+key]; ok && v != "" {
		return v
	}
	return def
}

func destSource(dir string) stubSource {
	return stubSource{"Network.DestDirectory": filepath.ToSlash(dir)}
}

// stickyFS refuses to delete files.
type stickyFS struct {
	billy.Filesystem
}

func (stickyFS) Remove(string) error { return errors.New("file is locked") }

var artifact = types.TempArtifact{Name: "J20240115093000045.csv", Dir: "TempCsv"}

func newTemp(t *testing.T, content string) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, artifact.Path(), []byte(content), 0o644))
	return fsys
}

// ============================================================================
// Tests
// ============================================================================

func TestDeliverCopiesAndRemovesTemp(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "CSV", "inbox")
	temp := newTemp(t, "record\r\n")

	svc := New(destSource(dest), temp, WithLogger(logging.Discard()))
	receipt, err := svc.Deliver(artifact)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dest, artifact.Name), receipt.Destination)
	assert.True(t, receipt.TempRemoved)

	b, err := os.ReadFile(receipt.Destination)
	require.NoError(t, err)
	assert.Equal(t, "record\r\n", string(b))
	assert.False(t, utils.FileExists(temp, artifact.Path()))
}

func TestDeliverTwiceOverwrites(t *testing.T) {
	dest := t.TempDir()
	temp := newTemp(t, "first\r\n")
	svc := New(destSource(dest), temp, WithLogger(logging.Discard()))

	_, err := svc.Deliver(artifact)
	require.NoError(t, err)

	require.NoError(t, util.WriteFile(temp, artifact.Path(), []byte("second\r\n"), 0o644))
	receipt, err := svc.Deliver(artifact)
	require.NoError(t, err)

	b, err := os.ReadFile(receipt.Destination)
	require.NoError(t, err)
	assert.Equal(t, "second\r\n", string(b))
}

func TestDeliverNoDestination(t *testing.T) {
	temp := newTemp(t, "x")
	svc := New(stubSource{}, temp, WithLogger(logging.Discard()))

	_, err := svc.Deliver(artifact)
	require.Error(t, err)
	assert.Equal(t, types.KindNoDestinationConfigured, types.KindOf(err))
	assert.True(t, utils.FileExists(temp, artifact.Path()))
}

func TestDeliverInvalidDestination(t *testing.T) {
	for _, dest := range []string{`relative\path`, `\\server`, "C:\\CSV\x00", "   "} {
		temp := newTemp(t, "x")
		svc := New(stubSource{"Network.DestDirectory": dest}, temp, WithLogger(logging.Discard()))

		_, err := svc.Deliver(artifact)
		require.Error(t, err, dest)
		assert.Equal(t, types.KindInvalidDestinationPath, types.KindOf(err), dest)
		assert.True(t, utils.FileExists(temp, artifact.Path()))
	}
}

func TestDeliverForeignRootRejected(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("drive and UNC roots resolve on Windows")
	}

	for _, dest := range []string{`C:\CSV`, `\\fileserver\pos\csv`} {
		t.Run(dest, func(t *testing.T) {
			wd, wdErr := os.Getwd()
			require.NoError(t, wdErr)
			require.NoError(t, os.Chdir(t.TempDir()))
			t.Cleanup(func() { _ = os.Chdir(wd) })
			temp := newTemp(t, "x")
			svc := New(stubSource{"Network.DestDirectory": dest}, temp, WithLogger(logging.Discard()))

			_, err := svc.Deliver(artifact)
			require.Error(t, err)
			assert.Equal(t, types.KindInvalidDestinationPath, types.KindOf(err))
			assert.ErrorIs(t, err, ErrRootNotSupported)
			assert.True(t, utils.FileExists(temp, artifact.Path()), "temp artifact kept")

			entries, err := os.ReadDir(".")
			require.NoError(t, err)
			assert.Empty(t, entries, "nothing written relative to the working directory")
		})
	}
}

func TestDeliverUnreachableDestination(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "offline-share")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	temp := newTemp(t, "x")
	svc := New(destSource(filepath.Join(blocker, "csv")), temp, WithLogger(logging.Discard()))

	_, err := svc.Deliver(artifact)
	require.Error(t, err)
	assert.Equal(t, types.KindCopyFailure, types.KindOf(err))
	assert.True(t, utils.FileExists(temp, artifact.Path()), "temp artifact kept for recovery")
}

func TestDeliverMissingTempIsCopyFailure(t *testing.T) {
	svc := New(destSource(t.TempDir()), memfs.New(), WithLogger(logging.Discard()))

	_, err := svc.Deliver(artifact)
	require.Error(t, err)
	assert.Equal(t, types.KindCopyFailure, types.KindOf(err))
}

func TestDeliverTempRemovalFailureIsNotAnError(t *testing.T) {
	dest := t.TempDir()
	temp := stickyFS{newTemp(t, "x")}

	svc := New(destSource(dest), temp, WithLogger(logging.Discard()))
	receipt, err := svc.Deliver(artifact)
	require.NoError(t, err)
	assert.False(t, receipt.TempRemoved)
	assert.FileExists(t, filepath.Join(dest, artifact.Name))
}

func TestDeliverUsesDirOpener(t *testing.T) {
	mem := memfs.New()
	var opened string
	opener := func(dir string) billy.Filesystem {
		opened = dir
		fsys, err := mem.Chroot(dir)
		require.NoError(t, err)
		return fsys
	}

	temp := newTemp(t, "x")
	svc := New(stubSource{"Network.DestDirectory": "/srv/csv"}, temp,
		WithDirOpener(opener), WithLogger(logging.Discard()))

	_, err := svc.Deliver(artifact)
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/srv/csv"), opened)
	assert.True(t, utils.FileExists(mem, filepath.Join("/srv/csv", artifact.Name)))
}
