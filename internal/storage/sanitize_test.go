package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	t.Run("Lowercases Extension", func(t *testing.T) {
		name, err := Sanitize("Photo.JPG")
		assert.NoError(t, err)
		assert.Equal(t, "Photo", name.Base)
		assert.Equal(t, "jpg", name.Ext)
		assert.Equal(t, "Photo.jpg", name.String())
	})

	t.Run("Normalizes Unicode", func(t *testing.T) {
		// U+FB01 is the "fi" ligature; NFKC expands it.
		name, err := Sanitize("ﬁle.png")
		assert.NoError(t, err)
		assert.Equal(t, "file.png", name.String())
	})

	t.Run("Trims Whitespace", func(t *testing.T) {
		name, err := Sanitize("  holiday.webp  ")
		assert.NoError(t, err)
		assert.Equal(t, "holiday.webp", name.String())
	})

	t.Run("Replaces Path Separators", func(t *testing.T) {
		name, err := Sanitize("a/b\\c.gif")
		assert.NoError(t, err)
		assert.Equal(t, "a_b_c.gif", name.String())
	})

	t.Run("Escapes HTML", func(t *testing.T) {
		name, err := Sanitize("a<b.jpg")
		assert.NoError(t, err)
		assert.Equal(t, "a&lt;b", name.Base)
	})

	t.Run("Truncates Long Base", func(t *testing.T) {
		name, err := Sanitize(strings.Repeat("x", 300) + ".jpeg")
		assert.NoError(t, err)
		assert.Len(t, name.String(), MaxFileNameLen)
		assert.Equal(t, "jpeg", name.Ext)
	})

	t.Run("Truncates Multibyte Base On Rune Boundary", func(t *testing.T) {
		name, err := Sanitize(strings.Repeat("ü", 200) + ".jpg")
		assert.NoError(t, err)
		assert.True(t, utf8.ValidString(name.Base))
		assert.LessOrEqual(t, len(name.String()), MaxFileNameLen)
		// A 123-byte cut would split the last two-byte rune, so the
		// base backs off to 122 bytes.
		assert.Len(t, name.Base, 122)
	})

	t.Run("Rejects Dot Dot", func(t *testing.T) {
		_, err := Sanitize("evil..name.jpg")
		assert.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("Rejects Empty", func(t *testing.T) {
		_, err := Sanitize("   ")
		assert.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("Rejects Missing Extension", func(t *testing.T) {
		_, err := Sanitize("no-extension")
		assert.ErrorIs(t, err, ErrUnsupportedExtension)

		_, err = Sanitize(".hidden")
		assert.ErrorIs(t, err, ErrUnsupportedExtension)

		_, err = Sanitize("trailing.")
		assert.ErrorIs(t, err, ErrUnsupportedExtension)
	})

	t.Run("Rejects Unsupported Extension", func(t *testing.T) {
		_, err := Sanitize("script.exe")
		assert.ErrorIs(t, err, ErrUnsupportedExtension)

		_, err = Sanitize("raw.cr2")
		assert.ErrorIs(t, err, ErrUnsupportedExtension)
	})
}

func TestResolveCollisions(t *testing.T) {
	name := SafeName{Base: "img", Ext: "jpg"}

	t.Run("Free Name Passes Through", func(t *testing.T) {
		dir := t.TempDir()

		resolved, collisions, err := ResolveCollisions(dir, name)
		assert.NoError(t, err)
		assert.Equal(t, "img.jpg", resolved.String())
		assert.Equal(t, 0, collisions)
	})

	t.Run("First Collision Appends Copy", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "img.jpg")

		resolved, collisions, err := ResolveCollisions(dir, name)
		assert.NoError(t, err)
		assert.Equal(t, "img_copy.jpg", resolved.String())
		assert.Equal(t, 1, collisions)
	})

	t.Run("Further Collisions Are Numbered", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "img.jpg")
		touch(t, dir, "img_copy.jpg")
		touch(t, dir, "img_copy_2.jpg")

		resolved, collisions, err := ResolveCollisions(dir, name)
		assert.NoError(t, err)
		assert.Equal(t, "img_copy_3.jpg", resolved.String())
		assert.Equal(t, 3, collisions)
	})
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}
