package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"photo-vault/internal/domain"
	"photo-vault/internal/pkg/vision"
)

type EnrichService struct {
	mock.Mock
}

func (m *EnrichService) Enrich(photo *domain.Photo) {
	m.Called(photo)
}

func (m *EnrichService) Merge(ctx context.Context, analysis *vision.Analysis, photo *domain.Photo) {
	m.Called(ctx, analysis, photo)
}
