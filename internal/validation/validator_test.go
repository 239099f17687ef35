package validation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidFolderPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"drive root folder", `C:\CSV`, true},
		{"drive nested folder", `C:\CSV\Sub`, true},
		{"drive forward slashes", `d:/csv/out`, true},
		{"drive root only", `C:\`, true},
		{"unc share", `\\server\share`, true},
		{"unc nested", `\\server\share\sub`, true},
		{"unc trailing separator", `\\server\share\sub\`, true},
		{"separator rooted", `/var/spool/csv`, true},
		{"backslash rooted", `\CSV`, true},
		{"dot segments resolved", `C:\CSV\.\Sub\..\Out`, true},
		{"parent above root clamps", `C:\..\CSV`, true},
		{"repeated separators collapse", `C:\\\foo`, true},

		{"empty", ``, false},
		{"whitespace", `   `, false},
		{"unc without share", `\\server`, false},
		{"unc with empty share", `\\server\`, false},
		{"unc blank share", `\\server\  \x`, false},
		{"relative", `relative\path`, false},
		{"drive relative", `C:foo`, false},
		{"bare drive", `C:`, false},
		{"null character", "C:\\CSV\x00", false},
		{"control character", "C:\\CS\tV", false},
		{"pipe", `C:\CSV|out`, false},
		{"wildcard", `C:\CSV\*`, false},
		{"stray colon", `C:\CSV\a:b`, false},
		{"blank component", `C:\ \foo`, false},
		{"device namespace", `\\?\C:\CSV`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidFolderPath(tt.path), "path %q", tt.path)
		})
	}
}

func TestNormalizeFolderPathErrors(t *testing.T) {
	tests := []struct {
		path string
		want error
	}{
		{"", ErrEmptyPath},
		{" \t ", ErrEmptyPath},
		{"a\x00b", ErrInvalidCharacter},
		{`relative\path`, ErrNotRooted},
		{`\\server`, ErrMissingShare},
		{`C:\ \foo`, ErrBlankComponent},
	}

	for _, tt := range tests {
		_, err := NormalizeFolderPath(tt.path)
		assert.ErrorIs(t, err, tt.want, "path %q", tt.path)
	}
}

func TestNormalizeFolderPathDrive(t *testing.T) {
	p, err := NormalizeFolderPath(`c:\CSV\.\Sub\..\Out\`)
	require.NoError(t, err)

	assert.Equal(t, RootDrive, p.Kind)
	assert.Equal(t, "C:", p.Drive)
	assert.Equal(t, []string{"CSV", "Out"}, p.Components)
	assert.Equal(t, `C:\CSV\Out`, p.String())
}

func TestNormalizeFolderPathUNC(t *testing.T) {
	p, err := NormalizeFolderPath(`\\fileserver\csv\\daily\..\in`)
	require.NoError(t, err)

	assert.Equal(t, RootUNC, p.Kind)
	assert.Equal(t, "fileserver", p.Server)
	assert.Equal(t, "csv", p.Share)
	assert.Equal(t, []string{"in"}, p.Components)
	assert.Equal(t, `\\fileserver\csv\in`, p.String())

	bare, err := NormalizeFolderPath(`\\fileserver\csv`)
	require.NoError(t, err)
	assert.Equal(t, `\\fileserver\csv`, bare.String())
}

func TestNativeSeparatorRooted(t *testing.T) {
	dir := t.TempDir()

	p, err := NormalizeFolderPath(filepath.ToSlash(dir))
	if filepath.Separator == '\\' {
		// t.TempDir is drive rooted on Windows.
		require.NoError(t, err)
		assert.Equal(t, RootDrive, p.Kind)
		return
	}

	require.NoError(t, err)
	assert.Equal(t, RootSeparator, p.Kind)
	assert.Equal(t, filepath.Clean(dir), p.Native())
}

func TestRootKindString(t *testing.T) {
	assert.Equal(t, "drive", RootDrive.String())
	assert.Equal(t, "unc", RootUNC.String())
	assert.Equal(t, "rooted", RootSeparator.String())
	assert.Equal(t, "none", RootKind(0).String())
}
