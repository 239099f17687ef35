// =============================================================================
// Scan to CSV - File Manager Utility
// =============================================================================
//
// This module provides the filesystem helpers shared by the temp artifact
// writer, the delivery service and the maintenance commands:
//   - Directory management
//   - Artifact discovery
//   - Cross-filesystem copy (temp filesystem -> destination filesystem)
//
// All helpers take go-billy filesystems so the same code runs against the
// OS filesystem in production and in-memory filesystems in tests.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// ArtifactPattern matches temp and delivered CSV file names.
const ArtifactPattern = "J*.csv"

// =============================================================================
// FILESYSTEM CONSTRUCTION
// =============================================================================

// OpenDir returns an OS-backed filesystem rooted at dir. The directory does
// not have to exist yet.
//
//nolint:ireturn // go-billy filesystems are consumed through the interface.
func OpenDir(dir string) billy.Filesystem {
	return osfs.New(dir)
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir (and parents) on fsys if it does not exist.
func EnsureDir(fsys billy.Filesystem, dir string) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverFiles lists regular files in dir matching pattern, sorted by name.
//
// PARAMETERS:
//   - fsys: The filesystem to scan.
//   - dir: The directory, relative to the filesystem root.
//   - pattern: A filepath.Match pattern. If empty, defaults to ArtifactPattern.
//
// RETURNS:
//   - The matching paths (dir joined with file name).
//   - An empty slice if dir does not exist.
func DiscoverFiles(fsys billy.Filesystem, dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = ArtifactPattern
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan directory %s: %w", dir, err)
	}

	var result []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if ok {
			result = append(result, fsys.Join(dir, entry.Name()))
		}
	}

	sort.Strings(result)
	return result, nil
}

// =============================================================================
// COPY
// =============================================================================

// CopyFile copies src on srcFS to dst on dstFS, replacing dst if it exists.
// dst is truncated before writing, so a repeated copy overwrites.
func CopyFile(srcFS billy.Basic, src string, dstFS billy.Basic, dst string) (err error) {
	in, err := srcFS.Open(src)
	if err != nil {
		return fmt.Errorf("open source %s: %w", src, err)
	}
	defer in.Close()

	out, err := dstFS.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create destination %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close destination %s: %w", dst, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// FileExists reports whether path exists on fsys.
func FileExists(fsys billy.Basic, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}
