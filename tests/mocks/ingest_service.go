package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"photo-vault/internal/domain"
)

type IngestService struct {
	mock.Mock
}

func (m *IngestService) Ingest(ctx context.Context, fileName string, data []byte, overrides domain.UploadOverrides, actor *uuid.UUID) (*domain.Photo, error) {
	args := m.Called(ctx, fileName, data, overrides, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Photo), args.Error(1)
}
