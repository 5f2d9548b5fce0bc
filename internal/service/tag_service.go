package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"photo-vault/internal/domain"
	"photo-vault/internal/repository"
)

var ErrTagNameInvalid = errors.New("tag name is empty or too long")

type TagService interface {
	List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.TagWithCount], error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type tagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.TagWithCount], error) {
	tags, total, err := s.tagRepo.ListWithCounts(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.TagWithCount]{}, err
	}
	params.Validate()
	return domain.NewPaginatedResponse(tags, params.Page, params.PageSize, total), nil
}

func (s *tagService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	return s.tagRepo.GetByID(ctx, id)
}

func (s *tagService) Rename(ctx context.Context, id uuid.UUID, name string) error {
	if name == "" || len(name) > domain.MaxTagNameLen {
		return ErrTagNameInvalid
	}
	return s.tagRepo.Rename(ctx, id, name)
}

func (s *tagService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tagRepo.Delete(ctx, id)
}
