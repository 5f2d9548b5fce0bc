package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"photo-vault/internal/domain"
	"photo-vault/internal/repository"
)

const (
	photoListCacheKey = "photos:list"
	photoCacheTTL     = 5 * time.Minute
)

func photoCacheKey(slug string) string {
	return "photos:slug:" + slug
}

type PhotoService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Photo, error)
	List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Photo], error)
	ListByTag(ctx context.Context, tagID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Photo], error)
	Update(ctx context.Context, id uuid.UUID, actor *uuid.UUID, input domain.UpdatePhotoInput) (*domain.Photo, error)
	Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error
}

type photoService struct {
	photoRepo repository.PhotoRepository
	auditRepo repository.AuditLogRepository
	redis     *redis.Client
}

func NewPhotoService(photoRepo repository.PhotoRepository, auditRepo repository.AuditLogRepository, redis *redis.Client) PhotoService {
	return &photoService{
		photoRepo: photoRepo,
		auditRepo: auditRepo,
		redis:     redis,
	}
}

func (s *photoService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	return s.photoRepo.GetByID(ctx, id)
}

func (s *photoService) GetBySlug(ctx context.Context, slug string) (*domain.Photo, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, photoCacheKey(slug)).Result(); err == nil {
			var photo domain.Photo
			if err := json.Unmarshal([]byte(cached), &photo); err == nil {
				return &photo, nil
			}
		}
	}

	photo, err := s.photoRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(photo); err == nil {
			_ = s.redis.Set(ctx, photoCacheKey(slug), data, photoCacheTTL).Err()
		}
	}
	return photo, nil
}

func (s *photoService) List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Photo], error) {
	photos, total, err := s.photoRepo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Photo]{}, err
	}
	params.Validate()
	return domain.NewPaginatedResponse(photos, params.Page, params.PageSize, total), nil
}

func (s *photoService) ListByTag(ctx context.Context, tagID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Photo], error) {
	photos, total, err := s.photoRepo.ListByTag(ctx, tagID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Photo]{}, err
	}
	params.Validate()
	return domain.NewPaginatedResponse(photos, params.Page, params.PageSize, total), nil
}

func (s *photoService) Update(ctx context.Context, id uuid.UUID, actor *uuid.UUID, input domain.UpdatePhotoInput) (*domain.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPhoto := *photo

	for attempt := 0; ; attempt++ {
		if input.Title.Set && input.Title.Value != nil {
			photo.Title = *input.Title.Value
		}
		if input.Summary.Set {
			photo.Summary = ""
			if input.Summary.Value != nil {
				photo.Summary = *input.Summary.Value
			}
		}
		if input.Description.Set {
			photo.Description = ""
			if input.Description.Value != nil {
				photo.Description = *input.Description.Value
			}
		}

		if len(photo.Title) > domain.MaxTitleLen {
			return nil, domain.ErrTitleTooLong
		}
		if len(photo.Summary) > domain.MaxSummaryLen {
			photo.Summary = truncateText(photo.Summary, domain.MaxSummaryLen-2) + ".."
		}

		err = s.photoRepo.UpdateVersioned(ctx, photo)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrVersionConflict) || attempt >= mergeRetries {
			return nil, err
		}
		photo, err = s.photoRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     actor,
		Action:     "UPDATE",
		EntityType: "PHOTO",
		EntityID:   photo.ID,
		OldValue:   oldPhoto,
		NewValue:   photo,
	})

	s.invalidate(ctx, photo.Slug)
	return photo, nil
}

func (s *photoService) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.photoRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Variant files are removed best-effort; a leftover file with no
	// record is logged as dangling elsewhere, never auto-repaired.
	for _, v := range photo.Variants {
		path := filepath.Join(v.Path, v.FileName)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Failed to remove variant file %s: %v", path, err)
		}
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     actor,
		Action:     "DELETE",
		EntityType: "PHOTO",
		EntityID:   photo.ID,
		OldValue:   photo,
	})

	s.invalidate(ctx, photo.Slug)
	return nil
}

func (s *photoService) invalidate(ctx context.Context, slug string) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, photoListCacheKey, photoCacheKey(slug)).Err()
	}
}
