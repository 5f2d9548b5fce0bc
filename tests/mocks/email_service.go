package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendShareEmail(ctx context.Context, toEmail, itemTitle, shareURL string) error {
	args := m.Called(ctx, toEmail, itemTitle, shareURL)
	return args.Error(0)
}
