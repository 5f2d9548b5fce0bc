package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"photo-vault/internal/domain"
)

type TagRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)
	GetByName(ctx context.Context, name string) (*domain.Tag, error)
	GetOrCreateByName(ctx context.Context, name string) (*domain.Tag, error)
	ListWithCounts(ctx context.Context, params domain.PaginationParams) ([]domain.TagWithCount, int64, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type tagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.db.GetContext(ctx, &tag, `SELECT * FROM tags WHERE tag_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.db.GetContext(ctx, &tag, `SELECT * FROM tags WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetOrCreateByName matches a tag by name, creating it lazily when absent.
// The upsert races safely against concurrent uploads creating the same tag.
func (r *tagRepository) GetOrCreateByName(ctx context.Context, name string) (*domain.Tag, error) {
	var tag domain.Tag
	query := `
		INSERT INTO tags (tag_id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING *`
	if err := r.db.GetContext(ctx, &tag, query, uuid.New(), name); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) ListWithCounts(ctx context.Context, params domain.PaginationParams) ([]domain.TagWithCount, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tags`); err != nil {
		return nil, 0, err
	}

	var tags []domain.TagWithCount
	query := `
		SELECT t.*, COUNT(pt.photo_id) AS photo_count
		FROM tags t
		LEFT JOIN photo_tags pt ON pt.tag_id = t.tag_id
		GROUP BY t.tag_id
		ORDER BY t.name
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &tags, query, params.PageSize, params.Offset())
	return tags, total, err
}

func (r *tagRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tags SET name = $1 WHERE tag_id = $2`, name, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

func (r *tagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE tag_id = $1`, id)
	return err
}

func (r *tagRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tags`)
	return total, err
}
