package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"photo-vault/internal/config"
	"photo-vault/internal/domain"
	"photo-vault/internal/repository"
)

var (
	ErrShareTarget   = errors.New("share link needs exactly one of photo_id or album_id")
	ErrSharePassword = errors.New("wrong share password")
)

// SharedContent is what a resolved share link exposes publicly.
type SharedContent struct {
	Photo  *domain.Photo  `json:"photo,omitempty"`
	Album  *domain.Album  `json:"album,omitempty"`
	Photos []domain.Photo `json:"photos,omitempty"`
}

type ShareService interface {
	Create(ctx context.Context, actor *uuid.UUID, input domain.CreateShareInput) (*domain.ShareLink, error)
	Resolve(ctx context.Context, token, password string) (*SharedContent, error)
	Revoke(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error
	ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.ShareLink, error)
}

type shareService struct {
	shareRepo repository.ShareRepository
	photoRepo repository.PhotoRepository
	albumRepo repository.AlbumRepository
	auditRepo repository.AuditLogRepository
	emailSvc  EmailService
	cfg       *config.Config
}

func NewShareService(shareRepo repository.ShareRepository, photoRepo repository.PhotoRepository, albumRepo repository.AlbumRepository, auditRepo repository.AuditLogRepository, emailSvc EmailService, cfg *config.Config) ShareService {
	return &shareService{
		shareRepo: shareRepo,
		photoRepo: photoRepo,
		albumRepo: albumRepo,
		auditRepo: auditRepo,
		emailSvc:  emailSvc,
		cfg:       cfg,
	}
}

func (s *shareService) Create(ctx context.Context, actor *uuid.UUID, input domain.CreateShareInput) (*domain.ShareLink, error) {
	if (input.PhotoID == nil) == (input.AlbumID == nil) {
		return nil, ErrShareTarget
	}

	var itemTitle string
	if input.PhotoID != nil {
		photo, err := s.photoRepo.GetByID(ctx, *input.PhotoID)
		if err != nil {
			return nil, err
		}
		itemTitle = photo.Title
	} else {
		album, err := s.albumRepo.GetByID(ctx, *input.AlbumID)
		if err != nil {
			return nil, err
		}
		itemTitle = album.Name
	}

	token, err := newShareToken()
	if err != nil {
		return nil, err
	}

	share := &domain.ShareLink{
		ID:        uuid.New(),
		Token:     token,
		PhotoID:   input.PhotoID,
		AlbumID:   input.AlbumID,
		CreatedBy: actor,
	}

	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashStr := string(hash)
		share.PasswordHash = &hashStr
	}

	if err := s.shareRepo.Create(ctx, share); err != nil {
		return nil, err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     actor,
		Action:     "CREATE",
		EntityType: "SHARE_LINK",
		EntityID:   share.ID,
		NewValue:   share,
	})

	if s.emailSvc != nil && input.NotifyEmail != nil && *input.NotifyEmail != "" {
		shareURL := fmt.Sprintf("https://%s/s/%s", s.cfg.Domain, share.Token)
		go func(toEmail, title, url string) {
			ctx := context.Background()
			if err := s.emailSvc.SendShareEmail(ctx, toEmail, title, url); err != nil {
				log.Printf("Failed to send share email to %s: %v", toEmail, err)
			}
		}(*input.NotifyEmail, itemTitle, shareURL)
	}

	return share, nil
}

func (s *shareService) Resolve(ctx context.Context, token, password string) (*SharedContent, error) {
	share, err := s.shareRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if share.PasswordHash != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(*share.PasswordHash), []byte(password)); err != nil {
			return nil, ErrSharePassword
		}
	}

	content := &SharedContent{}
	if share.PhotoID != nil {
		photo, err := s.photoRepo.GetByID(ctx, *share.PhotoID)
		if err != nil {
			return nil, err
		}
		content.Photo = photo
		return content, nil
	}

	album, err := s.albumRepo.GetByID(ctx, *share.AlbumID)
	if err != nil {
		return nil, err
	}
	content.Album = album

	photoIDs, err := s.albumRepo.ListPhotoIDs(ctx, *share.AlbumID)
	if err != nil {
		return nil, err
	}
	for _, id := range photoIDs {
		photo, err := s.photoRepo.GetByID(ctx, id)
		if err != nil {
			continue
		}
		content.Photos = append(content.Photos, *photo)
	}
	return content, nil
}

func (s *shareService) Revoke(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	if err := s.shareRepo.Revoke(ctx, id); err != nil {
		return err
	}
	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     actor,
		Action:     "DELETE",
		EntityType: "SHARE_LINK",
		EntityID:   id,
	})
	return nil
}

func (s *shareService) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.ShareLink, error) {
	return s.shareRepo.ListByCreator(ctx, createdBy)
}

func newShareToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
