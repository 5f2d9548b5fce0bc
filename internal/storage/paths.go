package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"photo-vault/internal/domain"
)

// Resolver maps a size tier and a date onto the on-disk directory
// {base}/{tier}/{year}/{month}/{day}.
type Resolver struct {
	Base string
}

func NewResolver(base string) Resolver {
	return Resolver{Base: base}
}

func (r Resolver) Dir(tier domain.SizeTier, date time.Time) string {
	return filepath.Join(r.Base, string(tier),
		date.Format("2006"), date.Format("01"), date.Format("02"))
}

// EnsureDir creates the tier directory for the date, returning its path.
func (r Resolver) EnsureDir(tier domain.SizeTier, date time.Time) (string, error) {
	dir := r.Dir(tier, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return dir, nil
}
