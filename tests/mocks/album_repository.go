package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"photo-vault/internal/domain"
)

type AlbumRepository struct {
	mock.Mock
}

func (m *AlbumRepository) Create(ctx context.Context, album *domain.Album) error {
	args := m.Called(ctx, album)
	return args.Error(0)
}

func (m *AlbumRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Album, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Album), args.Error(1)
}

func (m *AlbumRepository) GetBySlug(ctx context.Context, slug string) (*domain.Album, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Album), args.Error(1)
}

func (m *AlbumRepository) Update(ctx context.Context, album *domain.Album) error {
	args := m.Called(ctx, album)
	return args.Error(0)
}

func (m *AlbumRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *AlbumRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.Album, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Album), args.Get(1).(int64), args.Error(2)
}

func (m *AlbumRepository) AddPhoto(ctx context.Context, albumID, photoID uuid.UUID, position int) error {
	args := m.Called(ctx, albumID, photoID, position)
	return args.Error(0)
}

func (m *AlbumRepository) RemovePhoto(ctx context.Context, albumID, photoID uuid.UUID) error {
	args := m.Called(ctx, albumID, photoID)
	return args.Error(0)
}

func (m *AlbumRepository) ListPhotoIDs(ctx context.Context, albumID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, albumID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *AlbumRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
