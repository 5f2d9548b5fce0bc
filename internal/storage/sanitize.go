package storage

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidName          = errors.New("invalid file name")
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrUnrecognizedFormat   = errors.New("unrecognized image format")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

// MaxFileNameLen bounds the sanitized name including its extension.
const MaxFileNameLen = 127

// maxCollisionRetries bounds the `_copy_N` probe loop.
const maxCollisionRetries = 4096

var supportedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"tif":  true,
	"tiff": true,
	"bmp":  true,
}

// SafeName is the result of sanitizing an untrusted upload filename.
type SafeName struct {
	// Base is the name without extension.
	Base string
	// Ext is the lower-cased extension without the dot.
	Ext string
}

func (n SafeName) String() string {
	return n.Base + "." + n.Ext
}

// Sanitize turns a caller-supplied filename into a safe, bounded on-disk
// name. The name is NFKC-normalized, HTML-encoded and stripped of path
// separators before length and sentinel checks are applied.
func Sanitize(raw string) (SafeName, error) {
	name := strings.TrimSpace(norm.NFKC.String(raw))
	if name == "" {
		return SafeName{}, fmt.Errorf("%w: empty name", ErrInvalidName)
	}

	name = html.EscapeString(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")

	dot := strings.LastIndex(name, ".")
	if dot <= 0 || dot == len(name)-1 {
		return SafeName{}, fmt.Errorf("%w: missing extension in %q", ErrUnsupportedExtension, name)
	}

	base := name[:dot]
	ext := strings.ToLower(name[dot+1:])

	// Truncate the base so base + "." + ext fits the bound.
	if maxBase := MaxFileNameLen - len(ext) - 1; len(base) > maxBase {
		if maxBase < 1 {
			return SafeName{}, fmt.Errorf("%w: name too long", ErrInvalidName)
		}
		base = truncate(base, maxBase)
	}

	candidate := base + "." + ext
	if strings.Contains(candidate, "..") ||
		strings.ContainsAny(candidate, "/\\") ||
		strings.Contains(candidate, "&&") ||
		len(candidate) > MaxFileNameLen {
		return SafeName{}, fmt.Errorf("%w: %q", ErrInvalidName, candidate)
	}

	if !supportedExtensions[ext] {
		return SafeName{}, fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}

	return SafeName{Base: base, Ext: ext}, nil
}

// truncate shortens s to at most n bytes, backing the cut off a split
// multibyte rune so the result stays valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 {
		if r, size := utf8.DecodeLastRuneInString(s); r != utf8.RuneError || size > 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}

// ResolveCollisions probes dir for an unused filename, appending `_copy`,
// `_copy_2`, ... to the base until one is free. It returns the free name
// and how many occupied candidates were encountered; the count later feeds
// the title and description annotations.
func ResolveCollisions(dir string, name SafeName) (SafeName, int, error) {
	candidate := name
	for n := 0; n <= maxCollisionRetries; n++ {
		if n == 1 {
			candidate.Base = name.Base + "_copy"
		} else if n > 1 {
			candidate.Base = fmt.Sprintf("%s_copy_%d", name.Base, n)
		}

		_, err := os.Stat(filepath.Join(dir, candidate.String()))
		if errors.Is(err, os.ErrNotExist) {
			return candidate, n, nil
		}
		if err != nil {
			return SafeName{}, 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}
	return SafeName{}, 0, fmt.Errorf("%w: collision retries exhausted for %q", ErrStorageUnavailable, name)
}
