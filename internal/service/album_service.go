package service

import (
	"context"

	"github.com/google/uuid"

	"photo-vault/internal/domain"
	"photo-vault/internal/repository"
)

// AlbumWithPhotos bundles an album and its ordered photos.
type AlbumWithPhotos struct {
	domain.Album
	Photos []domain.Photo `json:"photos"`
}

type AlbumService interface {
	Create(ctx context.Context, actor *uuid.UUID, input domain.CreateAlbumInput) (*domain.Album, error)
	GetBySlug(ctx context.Context, slug string) (*AlbumWithPhotos, error)
	Update(ctx context.Context, id uuid.UUID, actor *uuid.UUID, input domain.UpdateAlbumInput) (*domain.Album, error)
	Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error
	List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Album], error)
	AddPhoto(ctx context.Context, albumID, photoID uuid.UUID, position int) error
	RemovePhoto(ctx context.Context, albumID, photoID uuid.UUID) error
}

type albumService struct {
	albumRepo repository.AlbumRepository
	photoRepo repository.PhotoRepository
	auditRepo repository.AuditLogRepository
}

func NewAlbumService(albumRepo repository.AlbumRepository, photoRepo repository.PhotoRepository, auditRepo repository.AuditLogRepository) AlbumService {
	return &albumService{
		albumRepo: albumRepo,
		photoRepo: photoRepo,
		auditRepo: auditRepo,
	}
}

func (s *albumService) Create(ctx context.Context, actor *uuid.UUID, input domain.CreateAlbumInput) (*domain.Album, error) {
	album := &domain.Album{
		ID:          uuid.New(),
		Slug:        input.Slug,
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   actor,
	}

	if err := s.albumRepo.Create(ctx, album); err != nil {
		return nil, err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     actor,
		Action:     "CREATE",
		EntityType: "ALBUM",
		EntityID:   album.ID,
		NewValue:   album,
	})

	return album, nil
}

func (s *albumService) GetBySlug(ctx context.Context, slug string) (*AlbumWithPhotos, error) {
	album, err := s.albumRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	photoIDs, err := s.albumRepo.ListPhotoIDs(ctx, album.ID)
	if err != nil {
		return nil, err
	}

	result := &AlbumWithPhotos{Album: *album}
	for _, id := range photoIDs {
		photo, err := s.photoRepo.GetByID(ctx, id)
		if err != nil {
			continue
		}
		result.Photos = append(result.Photos, *photo)
	}
	result.PhotoCount = int64(len(result.Photos))
	return result, nil
}

func (s *albumService) Update(ctx context.Context, id uuid.UUID, actor *uuid.UUID, input domain.UpdateAlbumInput) (*domain.Album, error) {
	album, err := s.albumRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldAlbum := *album

	if input.Name.Set && input.Name.Value != nil {
		album.Name = *input.Name.Value
	}
	if input.Description.Set {
		album.Description = ""
		if input.Description.Value != nil {
			album.Description = *input.Description.Value
		}
	}

	if err := s.albumRepo.Update(ctx, album); err != nil {
		return nil, err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     actor,
		Action:     "UPDATE",
		EntityType: "ALBUM",
		EntityID:   album.ID,
		OldValue:   oldAlbum,
		NewValue:   album,
	})

	return album, nil
}

func (s *albumService) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	album, err := s.albumRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.albumRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     actor,
		Action:     "DELETE",
		EntityType: "ALBUM",
		EntityID:   album.ID,
		OldValue:   album,
	})

	return nil
}

func (s *albumService) List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Album], error) {
	albums, total, err := s.albumRepo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Album]{}, err
	}
	params.Validate()
	return domain.NewPaginatedResponse(albums, params.Page, params.PageSize, total), nil
}

func (s *albumService) AddPhoto(ctx context.Context, albumID, photoID uuid.UUID, position int) error {
	if _, err := s.albumRepo.GetByID(ctx, albumID); err != nil {
		return err
	}
	if _, err := s.photoRepo.GetByID(ctx, photoID); err != nil {
		return err
	}
	return s.albumRepo.AddPhoto(ctx, albumID, photoID, position)
}

func (s *albumService) RemovePhoto(ctx context.Context, albumID, photoID uuid.UUID) error {
	return s.albumRepo.RemovePhoto(ctx, albumID, photoID)
}
