package service

import (
	"bytes"
	"context"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"

	"photo-vault/internal/domain"
)

// ArchiveService mirrors SOURCE variants into an S3-compatible bucket as
// an offsite copy. Archiving is advisory: it runs in the background and
// its failures never affect the upload.
type ArchiveService interface {
	ScheduleSource(photo *domain.Photo)
}

type archiveService struct {
	client *minio.Client
	bucket string
}

func NewArchiveService(client *minio.Client, bucket string) ArchiveService {
	return &archiveService{client: client, bucket: bucket}
}

func (s *archiveService) ScheduleSource(photo *domain.Photo) {
	source := photo.VariantByTier(domain.TierSource)
	if source == nil {
		return
	}

	key := path.Join(string(domain.TierSource), photo.UploadedAt.Format("2006/01/02"), source.FileName)
	localPath := filepath.Join(source.Path, source.FileName)

	go func() {
		ctx := context.Background()

		data, err := os.ReadFile(localPath)
		if err != nil {
			log.Printf("Archive skipped for %s: %v", photo.Slug, err)
			return
		}

		_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
		if err != nil {
			log.Printf("Archive upload failed for %s: %v", photo.Slug, err)
		}
	}()
}
