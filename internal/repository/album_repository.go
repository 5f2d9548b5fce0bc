package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"photo-vault/internal/domain"
)

type AlbumRepository interface {
	Create(ctx context.Context, album *domain.Album) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Album, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Album, error)
	Update(ctx context.Context, album *domain.Album) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params domain.PaginationParams) ([]domain.Album, int64, error)
	AddPhoto(ctx context.Context, albumID, photoID uuid.UUID, position int) error
	RemovePhoto(ctx context.Context, albumID, photoID uuid.UUID) error
	ListPhotoIDs(ctx context.Context, albumID uuid.UUID) ([]uuid.UUID, error)
	Count(ctx context.Context) (int64, error)
}

type albumRepository struct {
	db *sqlx.DB
}

func NewAlbumRepository(db *sqlx.DB) AlbumRepository {
	return &albumRepository{db: db}
}

func (r *albumRepository) Create(ctx context.Context, album *domain.Album) error {
	query := `
		INSERT INTO albums (album_id, slug, name, description, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	err := r.db.QueryRowxContext(ctx, query,
		album.ID, album.Slug, album.Name, album.Description, album.CreatedBy,
	).Scan(&album.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrSlugTaken
	}
	return err
}

func (r *albumRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Album, error) {
	var album domain.Album
	err := r.db.GetContext(ctx, &album, `SELECT * FROM albums WHERE album_id = $1 AND deleted_at IS NULL`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAlbumNotFound
	}
	if err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *albumRepository) GetBySlug(ctx context.Context, slug string) (*domain.Album, error) {
	var album domain.Album
	err := r.db.GetContext(ctx, &album, `SELECT * FROM albums WHERE slug = $1 AND deleted_at IS NULL`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAlbumNotFound
	}
	if err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *albumRepository) Update(ctx context.Context, album *domain.Album) error {
	query := `
		UPDATE albums
		SET name = $1, description = $2
		WHERE album_id = $3 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, album.Name, album.Description, album.ID)
	return err
}

func (r *albumRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE albums SET deleted_at = NOW() WHERE album_id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *albumRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.Album, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM albums WHERE deleted_at IS NULL`); err != nil {
		return nil, 0, err
	}

	var albums []domain.Album
	query := `
		SELECT * FROM albums
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &albums, query, params.PageSize, params.Offset())
	return albums, total, err
}

func (r *albumRepository) AddPhoto(ctx context.Context, albumID, photoID uuid.UUID, position int) error {
	query := `
		INSERT INTO album_photos (album_id, photo_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (album_id, photo_id) DO UPDATE SET position = EXCLUDED.position`
	_, err := r.db.ExecContext(ctx, query, albumID, photoID, position)
	return err
}

func (r *albumRepository) RemovePhoto(ctx context.Context, albumID, photoID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM album_photos WHERE album_id = $1 AND photo_id = $2`, albumID, photoID)
	return err
}

func (r *albumRepository) ListPhotoIDs(ctx context.Context, albumID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		SELECT photo_id FROM album_photos
		WHERE album_id = $1
		ORDER BY position, added_at`
	err := r.db.SelectContext(ctx, &ids, query, albumID)
	return ids, err
}

func (r *albumRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM albums WHERE deleted_at IS NULL`)
	return total, err
}
