package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAlbumNotFound = errors.New("album not found")

type Album struct {
	ID          uuid.UUID  `json:"id" db:"album_id"`
	Slug        string     `json:"slug" db:"slug"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`

	PhotoCount int64 `json:"photo_count" db:"-"`
}

type CreateAlbumInput struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateAlbumInput struct {
	Name        NullableString `json:"name"`
	Description NullableString `json:"description"`
}
