package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"photo-vault/internal/pkg/vision"
)

type Analyzer struct {
	mock.Mock
}

func (m *Analyzer) Analyze(ctx context.Context, image []byte) (*vision.Analysis, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vision.Analysis), args.Error(1)
}
