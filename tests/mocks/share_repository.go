package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"photo-vault/internal/domain"
)

type ShareRepository struct {
	mock.Mock
}

func (m *ShareRepository) Create(ctx context.Context, share *domain.ShareLink) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

func (m *ShareRepository) GetByToken(ctx context.Context, token string) (*domain.ShareLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShareLink), args.Error(1)
}

func (m *ShareRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ShareRepository) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.ShareLink, error) {
	args := m.Called(ctx, createdBy)
	return args.Get(0).([]domain.ShareLink), args.Error(1)
}
