package service

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/google/uuid"

	"photo-vault/internal/domain"
	"photo-vault/internal/repository"
)

// ErrNotMultipart rejects upload requests whose body is not multipart
// form data.
var ErrNotMultipart = errors.New("request body is not multipart form data")

// maxSections bounds how many multipart sections one request may carry.
const maxSections = 4096

// maxFieldBytes bounds the size of a single form field value.
const maxFieldBytes = 8 * 1024

// UploadService drives one batch upload: it walks the multipart stream in
// order, routes field parts into the pending overrides, ingests and
// persists file parts, and fans out enrichment for eligible photos. The
// returned photos are pre-enrichment snapshots in stream order.
type UploadService interface {
	UploadBatch(ctx context.Context, reader *multipart.Reader, actor *uuid.UUID) ([]*domain.Photo, error)
}

type uploadService struct {
	ingest    IngestService
	enrich    EnrichService
	archive   ArchiveService
	photoRepo repository.PhotoRepository
	auditRepo repository.AuditLogRepository
}

func NewUploadService(ingest IngestService, enrich EnrichService, archive ArchiveService, photoRepo repository.PhotoRepository, auditRepo repository.AuditLogRepository) UploadService {
	return &uploadService{
		ingest:    ingest,
		enrich:    enrich,
		archive:   archive,
		photoRepo: photoRepo,
		auditRepo: auditRepo,
	}
}

func (s *uploadService) UploadBatch(ctx context.Context, reader *multipart.Reader, actor *uuid.UUID) ([]*domain.Photo, error) {
	if reader == nil {
		return nil, ErrNotMultipart
	}

	var (
		photos    []*domain.Photo
		overrides domain.UploadOverrides
		wg        sync.WaitGroup
	)

	for i := 0; i < maxSections; i++ {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("Aborting multipart read after %d sections: %v", i, err)
			break
		}

		if part.FileName() == "" {
			s.applyField(part, &overrides)
			continue
		}

		photo := s.ingestFile(ctx, part, overrides, actor)
		// Overrides apply to exactly one file: the next one in the
		// stream. Clear them whether ingestion succeeded or not.
		overrides.Reset()
		if photo == nil {
			continue
		}

		photos = append(photos, photo)

		if s.archive != nil {
			s.archive.ScheduleSource(photo)
		}

		if photo.VariantByTier(domain.TierThumbnail) != nil {
			wg.Add(1)
			go func(p *domain.Photo) {
				defer wg.Done()
				s.enrich.Enrich(p)
			}(photo)
		}
	}

	// Settle every enrichment task before answering; their failures are
	// logged inside the enrichment service and never surfaced here.
	wg.Wait()

	return photos, nil
}

func (s *uploadService) applyField(part *multipart.Part, overrides *domain.UploadOverrides) {
	value, err := readFieldValue(part)
	if err != nil {
		log.Printf("Failed to read form field %q: %v", part.FormName(), err)
		return
	}

	switch part.FormName() {
	case "title":
		overrides.Title = value
	case "slug":
		overrides.Slug = value
	case "tags":
		overrides.Tags = splitTags(value)
	}
}

// ingestFile runs one file section through the ingestor and persists the
// result. Any failure is item-level: logged, nil returned, batch continues.
func (s *uploadService) ingestFile(ctx context.Context, part *multipart.Part, overrides domain.UploadOverrides, actor *uuid.UUID) *domain.Photo {
	data, err := io.ReadAll(part)
	if err != nil {
		log.Printf("Failed to read file section %q: %v", part.FileName(), err)
		return nil
	}

	photo, err := s.ingest.Ingest(ctx, part.FileName(), data, overrides, actor)
	if err != nil {
		log.Printf("Skipping file %q: %v", part.FileName(), err)
		return nil
	}

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		if errors.Is(err, domain.ErrSlugTaken) {
			log.Printf("Skipping file %q: slug %q already taken", part.FileName(), photo.Slug)
		} else {
			log.Printf("Failed to persist photo for %q: %v", part.FileName(), err)
		}
		return nil
	}

	if !photo.HasSource() {
		log.Printf("Skipping photo %s: no source variant after persistence", photo.Slug)
		return nil
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     actor,
		Action:     "CREATE",
		EntityType: "PHOTO",
		EntityID:   photo.ID,
		NewValue:   photo,
	})

	return photo
}

func readFieldValue(part *multipart.Part) (string, error) {
	data, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func splitTags(value string) []string {
	parts := strings.Split(value, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
