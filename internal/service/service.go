package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"photo-vault/internal/config"
	"photo-vault/internal/pkg/vision"
	"photo-vault/internal/repository"
	"photo-vault/internal/storage"
)

type Services struct {
	Ingest IngestService
	Upload UploadService
	Enrich EnrichService
	Photo  PhotoService
	Tag    TagService
	Album  AlbumService
	Share  ShareService
	Stats  StatsService
	Audit  AuditService
}

// NewServices wires the service layer. Redis and MinIO are optional:
// a nil client disables caching and archiving respectively.
func NewServices(repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, analyzer vision.Analyzer, cfg *config.Config) *Services {
	resolver := storage.NewResolver(cfg.StorageRoot)

	ingest := NewIngestService(resolver, repos.Photo, repos.Tag, cfg.MaxUploadBytes)
	enrich := NewEnrichService(repos.Photo, repos.Tag, analyzer, cfg.VisionTimeout, redisClient)

	var archive ArchiveService
	if minioClient != nil && cfg.ArchiveEnabled {
		archive = NewArchiveService(minioClient, cfg.MinIOBucket)
	}

	var email EmailService
	if cfg.ResendAPIKey != "" {
		email = NewEmailService(cfg)
	}

	return &Services{
		Ingest: ingest,
		Upload: NewUploadService(ingest, enrich, archive, repos.Photo, repos.AuditLog),
		Enrich: enrich,
		Photo:  NewPhotoService(repos.Photo, repos.AuditLog, redisClient),
		Tag:    NewTagService(repos.Tag),
		Album:  NewAlbumService(repos.Album, repos.Photo, repos.AuditLog),
		Share:  NewShareService(repos.Share, repos.Photo, repos.Album, repos.AuditLog, email, cfg),
		Stats:  NewStatsService(repos.Photo, repos.Tag, repos.Album, redisClient),
		Audit:  NewAuditService(repos.AuditLog),
	}
}
