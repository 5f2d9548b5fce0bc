package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrShareNotFound = errors.New("share link not found")

type ShareLink struct {
	ID           uuid.UUID  `json:"id" db:"share_id"`
	Token        string     `json:"token" db:"token"`
	PhotoID      *uuid.UUID `json:"photo_id,omitempty" db:"photo_id"`
	AlbumID      *uuid.UUID `json:"album_id,omitempty" db:"album_id"`
	PasswordHash *string    `json:"-" db:"password_hash"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty" db:"revoked_at"`
}

type CreateShareInput struct {
	PhotoID     *uuid.UUID `json:"photo_id,omitempty"`
	AlbumID     *uuid.UUID `json:"album_id,omitempty"`
	Password    *string    `json:"password,omitempty"`
	NotifyEmail *string    `json:"notify_email,omitempty"`
}
