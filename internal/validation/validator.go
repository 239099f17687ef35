// =============================================================================
// Scan to CSV - Folder Path Validation
// =============================================================================
//
// This module decides whether a configured destination string is a usable
// absolute folder path before any file is copied there.
//
// ACCEPTED FORMS:
//   - Drive-rooted:     C:\CSV, C:/CSV/Sub
//   - Separator-rooted: \CSV, /var/spool/csv
//   - UNC:              \\server\share, \\server\share\sub
//
// REJECTED:
//   - Empty or whitespace-only input
//   - Characters that are illegal in paths (NUL, control characters,
//     < > " | ? *, and ':' anywhere but the drive designator)
//   - Relative and drive-relative paths (relative\path, C:foo, C:)
//   - UNC paths without a share (\\server, \\server\)
//   - Any component that is blank after normalization (C:\ \foo)
//
// Validation is purely lexical. Both '\' and '/' are treated as separators
// regardless of the host OS, and nothing touches the filesystem.
//
// =============================================================================

package validation

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

// =============================================================================
// VALIDATION ERRORS
// =============================================================================

var (
	// ErrEmptyPath is returned for empty or whitespace-only input.
	ErrEmptyPath = errors.New("path is empty")

	// ErrInvalidCharacter is returned when the input contains a character
	// that cannot appear in a path.
	ErrInvalidCharacter = errors.New("path contains an invalid character")

	// ErrNotRooted is returned for relative or drive-relative input.
	ErrNotRooted = errors.New("path is not absolute")

	// ErrMissingShare is returned for a UNC path without server and share.
	ErrMissingShare = errors.New("UNC path must name a server and a share")

	// ErrBlankComponent is returned when a component is empty or whitespace.
	ErrBlankComponent = errors.New("path contains a blank component")
)

// invalidPathChars are rejected anywhere in the input.
const invalidPathChars = `<>"|?*`

// =============================================================================
// NORMALIZED PATH
// =============================================================================

// RootKind describes how a path is anchored.
type RootKind int

const (
	// RootDrive is a drive-letter root such as C:\.
	RootDrive RootKind = iota + 1

	// RootSeparator is a bare separator root such as \ or /.
	RootSeparator

	// RootUNC is a \\server\share network root.
	RootUNC
)

// String returns a short label for the root kind.
func (k RootKind) String() string {
	switch k {
	case RootDrive:
		return "drive"
	case RootSeparator:
		return "rooted"
	case RootUNC:
		return "unc"
	default:
		return "none"
	}
}

// FolderPath is the normalized form of a valid folder path.
type FolderPath struct {
	// Kind is the root kind.
	Kind RootKind

	// Drive is the upper-case drive letter with colon (RootDrive only).
	Drive string

	// Server and Share name the UNC root (RootUNC only).
	Server string
	Share  string

	// Components are the path elements below the root, with "." and ".."
	// already resolved.
	Components []string
}

// String renders the path in Windows notation.
func (p FolderPath) String() string {
	return p.join(`\`)
}

// Native renders the path with the host separator. This is the form handed
// to the filesystem when delivering.
func (p FolderPath) Native() string {
	return p.join(string(filepath.Separator))
}

func (p FolderPath) join(sep string) string {
	var b strings.Builder
	switch p.Kind {
	case RootDrive:
		b.WriteString(p.Drive)
		b.WriteString(sep)
	case RootUNC:
		b.WriteString(sep + sep + p.Server + sep + p.Share)
		if len(p.Components) > 0 {
			b.WriteString(sep)
		}
	case RootSeparator:
		b.WriteString(sep)
	}
	b.WriteString(strings.Join(p.Components, sep))
	return b.String()
}

// =============================================================================
// PUBLIC API
// =============================================================================

// IsValidFolderPath reports whether p is a syntactically valid absolute
// folder path, either local (drive or separator rooted) or UNC.
func IsValidFolderPath(p string) bool {
	_, err := NormalizeFolderPath(p)
	return err == nil
}

// NormalizeFolderPath parses and normalizes p.
//
// RETURNS:
//   - The normalized FolderPath.
//   - One of the Err* values above when p is not a valid absolute folder path.
func NormalizeFolderPath(p string) (FolderPath, error) {
	if strings.TrimSpace(p) == "" {
		return FolderPath{}, ErrEmptyPath
	}
	if strings.IndexFunc(p, isInvalidPathRune) >= 0 {
		return FolderPath{}, ErrInvalidCharacter
	}

	s := strings.ReplaceAll(p, `\`, "/")

	switch {
	case strings.HasPrefix(s, "//"):
		return parseUNC(s)

	case hasDriveLetter(s):
		rest := s[2:]
		if !strings.HasPrefix(rest, "/") {
			// C: or C:foo resolve against a per-drive working directory.
			return FolderPath{}, ErrNotRooted
		}
		if strings.Contains(rest, ":") {
			return FolderPath{}, ErrInvalidCharacter
		}
		comps, err := normalizeComponents(rest)
		if err != nil {
			return FolderPath{}, err
		}
		return FolderPath{
			Kind:       RootDrive,
			Drive:      strings.ToUpper(s[:1]) + ":",
			Components: comps,
		}, nil

	case strings.HasPrefix(s, "/"):
		if strings.Contains(s, ":") {
			return FolderPath{}, ErrInvalidCharacter
		}
		comps, err := normalizeComponents(s)
		if err != nil {
			return FolderPath{}, err
		}
		return FolderPath{Kind: RootSeparator, Components: comps}, nil

	default:
		if strings.Contains(s, ":") {
			return FolderPath{}, ErrInvalidCharacter
		}
		return FolderPath{}, ErrNotRooted
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// parseUNC handles input that begins with two separators.
func parseUNC(s string) (FolderPath, error) {
	if strings.Contains(s, ":") {
		return FolderPath{}, ErrInvalidCharacter
	}

	rest := strings.TrimLeft(s, "/")
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 {
		return FolderPath{}, ErrMissingShare
	}
	server, share := parts[0], parts[1]
	if isBlank(server) || isBlank(share) {
		return FolderPath{}, ErrMissingShare
	}

	var comps []string
	if len(parts) == 3 {
		var err error
		comps, err = normalizeComponents("/" + parts[2])
		if err != nil {
			return FolderPath{}, err
		}
	}

	return FolderPath{
		Kind:       RootUNC,
		Server:     server,
		Share:      share,
		Components: comps,
	}, nil
}

// normalizeComponents cleans a slash-rooted tail and splits it into
// components. ".." never climbs above the root.
func normalizeComponents(rooted string) ([]string, error) {
	cleaned := path.Clean("/" + rooted)
	if cleaned == "/" {
		return nil, nil
	}

	comps := strings.Split(strings.TrimPrefix(cleaned, "/"), "/")
	for _, c := range comps {
		if isBlank(c) {
			return nil, ErrBlankComponent
		}
	}
	return comps, nil
}

func hasDriveLetter(s string) bool {
	return len(s) >= 2 && s[1] == ':' && isASCIILetter(s[0])
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isInvalidPathRune(r rune) bool {
	return r < 0x20 || r == 0x7f || strings.ContainsRune(invalidPathChars, r)
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}
