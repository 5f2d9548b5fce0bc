package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"photo-vault/internal/domain"
)

func TestResolverDir(t *testing.T) {
	r := NewResolver("/data/photos")
	date := time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC)

	assert.Equal(t,
		filepath.Join("/data/photos", "medium", "2024", "03", "07"),
		r.Dir(domain.TierMedium, date))

	// Single-digit months and days are zero-padded.
	early := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t,
		filepath.Join("/data/photos", "source", "2023", "01", "02"),
		r.Dir(domain.TierSource, early))
}

func TestResolverEnsureDir(t *testing.T) {
	r := NewResolver(t.TempDir())
	date := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	dir, err := r.EnsureDir(domain.TierThumbnail, date)
	assert.NoError(t, err)

	info, err := os.Stat(dir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent on an existing directory.
	again, err := r.EnsureDir(domain.TierThumbnail, date)
	assert.NoError(t, err)
	assert.Equal(t, dir, again)
}
