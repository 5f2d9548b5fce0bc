package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Photo    PhotoRepository
	Tag      TagRepository
	Album    AlbumRepository
	Share    ShareRepository
	AuditLog AuditLogRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Photo:    NewPhotoRepository(db),
		Tag:      NewTagRepository(db),
		Album:    NewAlbumRepository(db),
		Share:    NewShareRepository(db),
		AuditLog: NewAuditLogRepository(db),
	}
}
