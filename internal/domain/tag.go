package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const MaxTagNameLen = 127

var ErrTagNotFound = errors.New("tag not found")

type Tag struct {
	ID          uuid.UUID `json:"id" db:"tag_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type TagWithCount struct {
	Tag
	PhotoCount int64 `json:"photo_count" db:"photo_count"`
}
