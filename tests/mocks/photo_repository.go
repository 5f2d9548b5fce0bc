package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"photo-vault/internal/domain"
)

type PhotoRepository struct {
	mock.Mock
}

func (m *PhotoRepository) Create(ctx context.Context, photo *domain.Photo) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}

func (m *PhotoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Photo), args.Error(1)
}

func (m *PhotoRepository) GetBySlug(ctx context.Context, slug string) (*domain.Photo, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Photo), args.Error(1)
}

func (m *PhotoRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *PhotoRepository) UpdateVersioned(ctx context.Context, photo *domain.Photo) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}

func (m *PhotoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *PhotoRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.Photo, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Photo), args.Get(1).(int64), args.Error(2)
}

func (m *PhotoRepository) ListByTag(ctx context.Context, tagID uuid.UUID, params domain.PaginationParams) ([]domain.Photo, int64, error) {
	args := m.Called(ctx, tagID, params)
	return args.Get(0).([]domain.Photo), args.Get(1).(int64), args.Error(2)
}

func (m *PhotoRepository) AddTags(ctx context.Context, photoID uuid.UUID, tagIDs []uuid.UUID) error {
	args := m.Called(ctx, photoID, tagIDs)
	return args.Error(0)
}

func (m *PhotoRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PhotoRepository) TotalBytes(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
