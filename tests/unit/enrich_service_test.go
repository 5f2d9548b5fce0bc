package unit_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"photo-vault/internal/domain"
	"photo-vault/internal/pkg/vision"
	"photo-vault/internal/service"
	"photo-vault/tests/mocks"
)

func TestEnrichService_Enrich(t *testing.T) {
	t.Run("Merge Outlives Exhausted Vision Budget", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "sunset.jpg"), []byte("thumb"), 0o644))

		photo := &domain.Photo{
			ID:   uuid.New(),
			Slug: "2024-03-07-sunset",
			Variants: []domain.Variant{{
				Tier:     domain.TierThumbnail,
				Path:     dir,
				FileName: "sunset.jpg",
			}},
		}

		// The analysis overruns the vision timeout entirely.
		mockAnalyzer := new(mocks.Analyzer)
		mockAnalyzer.On("Analyze", mock.Anything, []byte("thumb")).Run(func(mock.Arguments) {
			time.Sleep(5 * time.Millisecond)
		}).Return(&vision.Analysis{Response: `{"summary":"a beach"}`}, nil).Once()

		// The follow-up writes must still run under a live context.
		liveCtx := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
		current := &domain.Photo{ID: photo.ID, Slug: photo.Slug, Version: 1}
		mockPhotoRepo := new(mocks.PhotoRepository)
		mockPhotoRepo.On("GetByID", liveCtx, photo.ID).Return(current, nil).Once()
		mockPhotoRepo.On("UpdateVersioned", liveCtx, current).Return(nil).Once()

		svc := service.NewEnrichService(mockPhotoRepo, new(mocks.TagRepository), mockAnalyzer, time.Millisecond, nil)
		svc.Enrich(photo)

		assert.Equal(t, "a beach", current.Summary)
		mockAnalyzer.AssertExpectations(t)
		mockPhotoRepo.AssertExpectations(t)
	})
}

func TestEnrichService_Merge(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second

	newPhoto := func() *domain.Photo {
		return &domain.Photo{
			ID:          uuid.New(),
			Slug:        "2024-03-07-sunset",
			Summary:     "sunset.jpg - 640x480, 2.0 kB",
			Description: "Uploaded in March 2024.",
			Version:     1,
		}
	}

	t.Run("Merges Summary And Description", func(t *testing.T) {
		mockPhotoRepo := new(mocks.PhotoRepository)
		mockTagRepo := new(mocks.TagRepository)
		svc := service.NewEnrichService(mockPhotoRepo, mockTagRepo, new(mocks.Analyzer), timeout, nil)

		photo := newPhoto()
		current := newPhoto()
		mockPhotoRepo.On("GetByID", ctx, photo.ID).Return(current, nil).Once()
		mockPhotoRepo.On("UpdateVersioned", ctx, current).Return(nil).Once()
		mockPhotoRepo.On("AddTags", ctx, photo.ID, mock.Anything).Return(nil).Once()

		beach := &domain.Tag{ID: uuid.New(), Name: "beach"}
		mockTagRepo.On("GetOrCreateByName", ctx, "beach").Return(beach, nil).Once()

		analysis := &vision.Analysis{Response: `{"summary":"a beach at dusk","description":"golden waves","tags":["beach"]}`}
		svc.Merge(ctx, analysis, photo)

		assert.Equal(t, "a beach at dusk - sunset.jpg - 640x480, 2.0 kB", current.Summary)
		assert.Equal(t, "golden waves - Uploaded in March 2024.", current.Description)
		mockPhotoRepo.AssertExpectations(t)
		mockTagRepo.AssertExpectations(t)
	})

	t.Run("Photo Deleted Mid Flight", func(t *testing.T) {
		mockPhotoRepo := new(mocks.PhotoRepository)
		svc := service.NewEnrichService(mockPhotoRepo, new(mocks.TagRepository), new(mocks.Analyzer), timeout, nil)

		photo := newPhoto()
		mockPhotoRepo.On("GetByID", ctx, photo.ID).Return(nil, domain.ErrPhotoNotFound).Once()

		analysis := &vision.Analysis{Response: `{"summary":"a beach"}`}
		svc.Merge(ctx, analysis, photo)

		mockPhotoRepo.AssertNotCalled(t, "UpdateVersioned", mock.Anything, mock.Anything)
	})

	t.Run("Unparsable Response Is Dropped", func(t *testing.T) {
		mockPhotoRepo := new(mocks.PhotoRepository)
		svc := service.NewEnrichService(mockPhotoRepo, new(mocks.TagRepository), new(mocks.Analyzer), timeout, nil)

		photo := newPhoto()
		mockPhotoRepo.On("GetByID", ctx, photo.ID).Return(newPhoto(), nil).Once()

		svc.Merge(ctx, &vision.Analysis{Response: "I see a sunset but no JSON here."}, photo)

		mockPhotoRepo.AssertNotCalled(t, "UpdateVersioned", mock.Anything, mock.Anything)
	})

	t.Run("Empty Response Skips Reload", func(t *testing.T) {
		mockPhotoRepo := new(mocks.PhotoRepository)
		svc := service.NewEnrichService(mockPhotoRepo, new(mocks.TagRepository), new(mocks.Analyzer), timeout, nil)

		svc.Merge(ctx, &vision.Analysis{Response: "   "}, newPhoto())
		svc.Merge(ctx, nil, newPhoto())

		mockPhotoRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Version Conflict Reloads And Retries", func(t *testing.T) {
		mockPhotoRepo := new(mocks.PhotoRepository)
		svc := service.NewEnrichService(mockPhotoRepo, new(mocks.TagRepository), new(mocks.Analyzer), timeout, nil)

		photo := newPhoto()
		stale := newPhoto()
		fresh := newPhoto()
		fresh.Summary = "edited meanwhile"
		fresh.Version = 2

		mockPhotoRepo.On("GetByID", ctx, photo.ID).Return(stale, nil).Once()
		mockPhotoRepo.On("UpdateVersioned", ctx, stale).Return(domain.ErrVersionConflict).Once()
		mockPhotoRepo.On("GetByID", ctx, photo.ID).Return(fresh, nil).Once()
		mockPhotoRepo.On("UpdateVersioned", ctx, fresh).Return(nil).Once()

		analysis := &vision.Analysis{Response: `{"summary":"a beach"}`}
		svc.Merge(ctx, analysis, photo)

		// The retry reapplied the merge against the reloaded state.
		assert.Equal(t, "a beach - edited meanwhile", fresh.Summary)
		mockPhotoRepo.AssertExpectations(t)
	})

	t.Run("Repeated Tags Are Not Deduplicated", func(t *testing.T) {
		mockPhotoRepo := new(mocks.PhotoRepository)
		mockTagRepo := new(mocks.TagRepository)
		svc := service.NewEnrichService(mockPhotoRepo, mockTagRepo, new(mocks.Analyzer), timeout, nil)

		photo := newPhoto()
		mockPhotoRepo.On("GetByID", ctx, photo.ID).Return(newPhoto(), nil).Once()
		mockPhotoRepo.On("UpdateVersioned", ctx, mock.Anything).Return(nil).Once()

		beach := &domain.Tag{ID: uuid.New(), Name: "beach"}
		mockTagRepo.On("GetOrCreateByName", ctx, "beach").Return(beach, nil).Twice()
		mockPhotoRepo.On("AddTags", ctx, photo.ID, []uuid.UUID{beach.ID, beach.ID}).Return(nil).Once()

		analysis := &vision.Analysis{Response: `{"summary":"a beach","tags":["beach","beach"]}`}
		svc.Merge(ctx, analysis, photo)

		mockTagRepo.AssertExpectations(t)
		mockPhotoRepo.AssertExpectations(t)
	})
}
