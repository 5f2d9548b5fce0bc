package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"photo-vault/internal/domain"
)

type ShareRepository interface {
	Create(ctx context.Context, share *domain.ShareLink) error
	GetByToken(ctx context.Context, token string) (*domain.ShareLink, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.ShareLink, error)
}

type shareRepository struct {
	db *sqlx.DB
}

func NewShareRepository(db *sqlx.DB) ShareRepository {
	return &shareRepository{db: db}
}

func (r *shareRepository) Create(ctx context.Context, share *domain.ShareLink) error {
	query := `
		INSERT INTO share_links (share_id, token, photo_id, album_id, password_hash, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	return r.db.QueryRowxContext(ctx, query,
		share.ID, share.Token, share.PhotoID, share.AlbumID, share.PasswordHash, share.CreatedBy,
	).Scan(&share.CreatedAt)
}

func (r *shareRepository) GetByToken(ctx context.Context, token string) (*domain.ShareLink, error) {
	var share domain.ShareLink
	query := `SELECT * FROM share_links WHERE token = $1 AND revoked_at IS NULL`
	err := r.db.GetContext(ctx, &share, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrShareNotFound
	}
	if err != nil {
		return nil, err
	}
	return &share, nil
}

func (r *shareRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE share_links SET revoked_at = NOW() WHERE share_id = $1 AND revoked_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrShareNotFound
	}
	return nil
}

func (r *shareRepository) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.ShareLink, error) {
	var shares []domain.ShareLink
	query := `
		SELECT * FROM share_links
		WHERE created_by = $1 AND revoked_at IS NULL
		ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &shares, query, createdBy)
	return shares, err
}
