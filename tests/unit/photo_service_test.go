package unit_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"photo-vault/internal/domain"
	"photo-vault/internal/service"
	"photo-vault/tests/mocks"
)

func nullableString(s string) domain.NullableString {
	return domain.NullableString{Set: true, Value: &s}
}

func TestPhotoService_Update(t *testing.T) {
	ctx := context.Background()
	photoID := uuid.New()

	t.Run("Applies Fields And Audits", func(t *testing.T) {
		mockPhotoRepo := new(mocks.PhotoRepository)
		mockAuditRepo := new(mocks.AuditLogRepository)
		svc := service.NewPhotoService(mockPhotoRepo, mockAuditRepo, nil)

		current := &domain.Photo{ID: photoID, Slug: "sunset", Title: "old", Version: 1}
		mockPhotoRepo.On("GetByID", ctx, photoID).Return(current, nil).Once()
		mockPhotoRepo.On("UpdateVersioned", ctx, current).Return(nil).Once()
		mockAuditRepo.On("Create", ctx, mock.MatchedBy(func(log *domain.AuditLog) bool {
			return log.Action == "UPDATE" && log.EntityType == "PHOTO" && log.EntityID == photoID
		})).Return(nil).Once()

		input := domain.UpdatePhotoInput{
			Title:   nullableString("new title"),
			Summary: nullableString("new summary"),
		}

		photo, err := svc.Update(ctx, photoID, nil, input)

		assert.NoError(t, err)
		assert.Equal(t, "new title", photo.Title)
		assert.Equal(t, "new summary", photo.Summary)
		mockPhotoRepo.AssertExpectations(t)
		mockAuditRepo.AssertExpectations(t)
	})

	t.Run("Clears Description With Explicit Null", func(t *testing.T) {
		mockPhotoRepo := new(mocks.PhotoRepository)
		mockAuditRepo := new(mocks.AuditLogRepository)
		svc := service.NewPhotoService(mockPhotoRepo, mockAuditRepo, nil)

		current := &domain.Photo{ID: photoID, Slug: "sunset", Title: "t", Description: "something", Version: 1}
		mockPhotoRepo.On("GetByID", ctx, photoID).Return(current, nil).Once()
		mockPhotoRepo.On("UpdateVersioned", ctx, current).Return(nil).Once()
		mockAuditRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		input := domain.UpdatePhotoInput{
			Description: domain.NullableString{Set: true, Value: nil},
		}

		photo, err := svc.Update(ctx, photoID, nil, input)

		assert.NoError(t, err)
		assert.Empty(t, photo.Description)
	})

	t.Run("Rejects Overlong Title", func(t *testing.T) {
		mockPhotoRepo := new(mocks.PhotoRepository)
		svc := service.NewPhotoService(mockPhotoRepo, new(mocks.AuditLogRepository), nil)

		current := &domain.Photo{ID: photoID, Slug: "sunset", Title: "t", Version: 1}
		mockPhotoRepo.On("GetByID", ctx, photoID).Return(current, nil).Once()

		input := domain.UpdatePhotoInput{
			Title: nullableString(strings.Repeat("x", domain.MaxTitleLen+1)),
		}

		_, err := svc.Update(ctx, photoID, nil, input)

		assert.ErrorIs(t, err, domain.ErrTitleTooLong)
		mockPhotoRepo.AssertNotCalled(t, "UpdateVersioned", mock.Anything, mock.Anything)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockPhotoRepo := new(mocks.PhotoRepository)
		svc := service.NewPhotoService(mockPhotoRepo, new(mocks.AuditLogRepository), nil)

		mockPhotoRepo.On("GetByID", ctx, photoID).Return(nil, domain.ErrPhotoNotFound).Once()

		_, err := svc.Update(ctx, photoID, nil, domain.UpdatePhotoInput{})
		assert.ErrorIs(t, err, domain.ErrPhotoNotFound)
	})
}

func TestPhotoService_Delete(t *testing.T) {
	ctx := context.Background()
	photoID := uuid.New()

	t.Run("Soft Deletes And Audits", func(t *testing.T) {
		mockPhotoRepo := new(mocks.PhotoRepository)
		mockAuditRepo := new(mocks.AuditLogRepository)
		svc := service.NewPhotoService(mockPhotoRepo, mockAuditRepo, nil)

		photo := &domain.Photo{ID: photoID, Slug: "sunset"}
		mockPhotoRepo.On("GetByID", ctx, photoID).Return(photo, nil).Once()
		mockPhotoRepo.On("Delete", ctx, photoID).Return(nil).Once()
		mockAuditRepo.On("Create", ctx, mock.MatchedBy(func(log *domain.AuditLog) bool {
			return log.Action == "DELETE" && log.EntityType == "PHOTO"
		})).Return(nil).Once()

		err := svc.Delete(ctx, photoID, nil)

		assert.NoError(t, err)
		mockPhotoRepo.AssertExpectations(t)
		mockAuditRepo.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockPhotoRepo := new(mocks.PhotoRepository)
		svc := service.NewPhotoService(mockPhotoRepo, new(mocks.AuditLogRepository), nil)

		mockPhotoRepo.On("GetByID", ctx, photoID).Return(nil, domain.ErrPhotoNotFound).Once()

		err := svc.Delete(ctx, photoID, nil)
		assert.ErrorIs(t, err, domain.ErrPhotoNotFound)
	})
}
