package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"photo-vault/internal/domain"
)

type PhotoRepository interface {
	Create(ctx context.Context, photo *domain.Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Photo, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	UpdateVersioned(ctx context.Context, photo *domain.Photo) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params domain.PaginationParams) ([]domain.Photo, int64, error)
	ListByTag(ctx context.Context, tagID uuid.UUID, params domain.PaginationParams) ([]domain.Photo, int64, error)
	AddTags(ctx context.Context, photoID uuid.UUID, tagIDs []uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	TotalBytes(ctx context.Context) (int64, error)
}

type photoRepository struct {
	db *sqlx.DB
}

func NewPhotoRepository(db *sqlx.DB) PhotoRepository {
	return &photoRepository{db: db}
}

// isUniqueViolation reports a postgres 23505 error, which maps to a slug
// conflict on the photos table.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *photoRepository) Create(ctx context.Context, photo *domain.Photo) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO photos (photo_id, slug, title, summary, description, created_at, uploaded_at, uploaded_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)`
	if _, err := tx.ExecContext(ctx, query,
		photo.ID, photo.Slug, photo.Title, photo.Summary, photo.Description,
		photo.CreatedAt, photo.UploadedAt, photo.UploadedBy,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return err
	}
	photo.Version = 1

	for i := range photo.Variants {
		v := &photo.Variants[i]
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		v.PhotoID = photo.ID
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO photo_variants (variant_id, photo_id, tier, path, file_name, byte_size, width, height)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			v.ID, v.PhotoID, v.Tier, v.Path, v.FileName, v.ByteSize, v.Width, v.Height,
		); err != nil {
			return err
		}
	}

	for _, tag := range photo.Tags {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO photo_tags (photo_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			photo.ID, tag.ID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *photoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	var photo domain.Photo
	query := `SELECT * FROM photos WHERE photo_id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &photo, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPhotoNotFound
		}
		return nil, err
	}
	if err := r.loadAssociations(ctx, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) GetBySlug(ctx context.Context, slug string) (*domain.Photo, error) {
	var photo domain.Photo
	query := `SELECT * FROM photos WHERE slug = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &photo, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPhotoNotFound
		}
		return nil, err
	}
	if err := r.loadAssociations(ctx, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM photos WHERE slug = $1 AND deleted_at IS NULL)`
	err := r.db.GetContext(ctx, &exists, query, slug)
	return exists, err
}

// UpdateVersioned persists the mutable photo fields guarded by the
// optimistic version token. domain.ErrVersionConflict means a concurrent
// writer got there first; the caller reloads and reapplies.
func (r *photoRepository) UpdateVersioned(ctx context.Context, photo *domain.Photo) error {
	query := `
		UPDATE photos
		SET title = $1, summary = $2, description = $3, version = version + 1
		WHERE photo_id = $4 AND version = $5 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query,
		photo.Title, photo.Summary, photo.Description, photo.ID, photo.Version)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrVersionConflict
	}
	photo.Version++
	return nil
}

func (r *photoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE photos SET deleted_at = NOW() WHERE photo_id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *photoRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.Photo, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM photos WHERE deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, err
	}

	var photos []domain.Photo
	query := `
		SELECT * FROM photos
		WHERE deleted_at IS NULL
		ORDER BY uploaded_at DESC
		LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &photos, query, params.PageSize, params.Offset()); err != nil {
		return nil, 0, err
	}

	for i := range photos {
		if err := r.loadAssociations(ctx, &photos[i]); err != nil {
			return nil, 0, err
		}
	}
	return photos, total, nil
}

func (r *photoRepository) ListByTag(ctx context.Context, tagID uuid.UUID, params domain.PaginationParams) ([]domain.Photo, int64, error) {
	params.Validate()

	var total int64
	countQuery := `
		SELECT COUNT(*) FROM photos p
		JOIN photo_tags pt ON pt.photo_id = p.photo_id
		WHERE pt.tag_id = $1 AND p.deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery, tagID); err != nil {
		return nil, 0, err
	}

	var photos []domain.Photo
	query := `
		SELECT p.* FROM photos p
		JOIN photo_tags pt ON pt.photo_id = p.photo_id
		WHERE pt.tag_id = $1 AND p.deleted_at IS NULL
		ORDER BY p.uploaded_at DESC
		LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &photos, query, tagID, params.PageSize, params.Offset()); err != nil {
		return nil, 0, err
	}

	for i := range photos {
		if err := r.loadAssociations(ctx, &photos[i]); err != nil {
			return nil, 0, err
		}
	}
	return photos, total, nil
}

// AddTags appends tag associations. The join table keeps (photo, tag)
// unique, so re-appending an existing association is a no-op at the
// database level.
func (r *photoRepository) AddTags(ctx context.Context, photoID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO photo_tags (photo_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			photoID, tagID,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *photoRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM photos WHERE deleted_at IS NULL`)
	return total, err
}

func (r *photoRepository) TotalBytes(ctx context.Context) (int64, error) {
	var total int64
	query := `
		SELECT COALESCE(SUM(v.byte_size), 0)
		FROM photo_variants v
		JOIN photos p ON p.photo_id = v.photo_id
		WHERE p.deleted_at IS NULL`
	err := r.db.GetContext(ctx, &total, query)
	return total, err
}

func (r *photoRepository) loadAssociations(ctx context.Context, photo *domain.Photo) error {
	variantsQuery := `SELECT * FROM photo_variants WHERE photo_id = $1 ORDER BY tier`
	if err := r.db.SelectContext(ctx, &photo.Variants, variantsQuery, photo.ID); err != nil {
		return err
	}

	tagsQuery := `
		SELECT t.* FROM tags t
		JOIN photo_tags pt ON pt.tag_id = t.tag_id
		WHERE pt.photo_id = $1
		ORDER BY t.name`
	return r.db.SelectContext(ctx, &photo.Tags, tagsQuery, photo.ID)
}
