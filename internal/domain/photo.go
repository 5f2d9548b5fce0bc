package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SizeTier identifies one stored resolution of a photo.
type SizeTier string

const (
	TierSource    SizeTier = "source"
	TierMedium    SizeTier = "medium"
	TierThumbnail SizeTier = "thumbnail"
)

const (
	MaxSlugLen    = 127
	MaxTitleLen   = 255
	MaxSummaryLen = 255
)

var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrSlugTaken     = errors.New("slug already taken")
	ErrSlugTooLong   = errors.New("slug exceeds maximum length")
	ErrTitleTooLong  = errors.New("title exceeds maximum length")

	// ErrVersionConflict signals that a versioned update lost the race
	// against a concurrent writer; reload and retry.
	ErrVersionConflict = errors.New("photo was modified concurrently")
)

type Photo struct {
	ID          uuid.UUID  `json:"id" db:"photo_id"`
	Slug        string     `json:"slug" db:"slug"`
	Title       string     `json:"title" db:"title"`
	Summary     string     `json:"summary" db:"summary"`
	Description string     `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UploadedAt  time.Time  `json:"uploaded_at" db:"uploaded_at"`
	UploadedBy  *uuid.UUID `json:"uploaded_by,omitempty" db:"uploaded_by"`
	Version     int64      `json:"-" db:"version"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`

	Variants []Variant `json:"variants" db:"-"`
	Tags     []Tag     `json:"tags" db:"-"`
}

type Variant struct {
	ID       uuid.UUID `json:"id" db:"variant_id"`
	PhotoID  uuid.UUID `json:"-" db:"photo_id"`
	Tier     SizeTier  `json:"tier" db:"tier"`
	Path     string    `json:"-" db:"path"`
	FileName string    `json:"file_name" db:"file_name"`
	ByteSize int64     `json:"byte_size" db:"byte_size"`
	Width    int       `json:"width" db:"width"`
	Height   int       `json:"height" db:"height"`
}

// VariantByTier returns the variant for the given tier, or nil.
func (p *Photo) VariantByTier(tier SizeTier) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Tier == tier {
			return &p.Variants[i]
		}
	}
	return nil
}

// HasSource reports whether the invariant "exactly one SOURCE variant"
// holds; a photo without one is not valid.
func (p *Photo) HasSource() bool {
	return p.VariantByTier(TierSource) != nil
}

type UpdatePhotoInput struct {
	Title       NullableString `json:"title"`
	Summary     NullableString `json:"summary"`
	Description NullableString `json:"description"`
}
