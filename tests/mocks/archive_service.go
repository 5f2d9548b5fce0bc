package mocks

import (
	"github.com/stretchr/testify/mock"

	"photo-vault/internal/domain"
)

type ArchiveService struct {
	mock.Mock
}

func (m *ArchiveService) ScheduleSource(photo *domain.Photo) {
	m.Called(photo)
}
