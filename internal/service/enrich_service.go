package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"photo-vault/internal/domain"
	"photo-vault/internal/pkg/vision"
	"photo-vault/internal/repository"
)

// mergeRetries bounds how often a merge is reapplied after losing an
// optimistic-concurrency race.
const mergeRetries = 3

// mergeTimeout budgets the database writes that follow a vision call.
const mergeTimeout = 10 * time.Second

// EnrichService sends a photo's thumbnail to the external analysis
// collaborator and merges the result into the latest persisted state.
// Everything here is best-effort: the upload response may already be on
// the wire, so failures are logged and dropped, never surfaced.
type EnrichService interface {
	Enrich(photo *domain.Photo)
	Merge(ctx context.Context, analysis *vision.Analysis, photo *domain.Photo)
}

type enrichService struct {
	photoRepo repository.PhotoRepository
	tagRepo   repository.TagRepository
	analyzer  vision.Analyzer
	timeout   time.Duration
	redis     *redis.Client
}

func NewEnrichService(photoRepo repository.PhotoRepository, tagRepo repository.TagRepository, analyzer vision.Analyzer, timeout time.Duration, redis *redis.Client) EnrichService {
	return &enrichService{
		photoRepo: photoRepo,
		tagRepo:   tagRepo,
		analyzer:  analyzer,
		timeout:   timeout,
		redis:     redis,
	}
}

// enrichmentPayload is the JSON object expected inside the collaborator's
// free-text response.
type enrichmentPayload struct {
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (s *enrichService) Enrich(photo *domain.Photo) {
	thumb := photo.VariantByTier(domain.TierThumbnail)
	if thumb == nil {
		return
	}

	data, err := os.ReadFile(filepath.Join(thumb.Path, thumb.FileName))
	if err != nil {
		log.Printf("Enrichment skipped for %s: cannot read thumbnail: %v", photo.Slug, err)
		return
	}

	// The collaborator may hang; the timeout keeps the batched wait in
	// the upload path from stalling indefinitely.
	visionCtx, cancelVision := context.WithTimeout(context.Background(), s.timeout)
	defer cancelVision()

	analysis, err := s.analyzer.Analyze(visionCtx, data)
	if err != nil {
		log.Printf("Enrichment failed for %s: %v", photo.Slug, err)
		return
	}

	// A slow analysis can eat the whole vision budget; the merge writes
	// run on their own clock.
	mergeCtx, cancelMerge := context.WithTimeout(context.Background(), mergeTimeout)
	defer cancelMerge()

	s.Merge(mergeCtx, analysis, photo)
}

func (s *enrichService) Merge(ctx context.Context, analysis *vision.Analysis, photo *domain.Photo) {
	if analysis == nil || strings.TrimSpace(analysis.Response) == "" {
		log.Printf("Enrichment for %s produced no usable result", photo.Slug)
		return
	}

	// The photo may have been deleted while the external call was in
	// flight; a vanished record makes the whole merge a no-op.
	current, err := s.photoRepo.GetByID(ctx, photo.ID)
	if err != nil {
		if errors.Is(err, domain.ErrPhotoNotFound) {
			log.Printf("Enrichment dropped: photo %s deleted mid-flight", photo.Slug)
		} else {
			log.Printf("Enrichment dropped for %s: %v", photo.Slug, err)
		}
		return
	}

	payload, ok := parseEnrichment(analysis.Response)
	if !ok {
		log.Printf("Enrichment for %s returned an unparsable payload", photo.Slug)
		return
	}
	if payload.Summary == "" && payload.Description == "" && len(payload.Tags) == 0 {
		log.Printf("Enrichment for %s returned an empty payload", photo.Slug)
		return
	}

	for attempt := 0; ; attempt++ {
		if payload.Summary != "" {
			current.Summary = combineText(payload.Summary, current.Summary, domain.MaxSummaryLen)
		}
		if payload.Description != "" {
			current.Description = combineText(payload.Description, current.Description, 0)
		}

		err = s.photoRepo.UpdateVersioned(ctx, current)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrVersionConflict) || attempt >= mergeRetries {
			log.Printf("Enrichment persist failed for %s: %v", photo.Slug, err)
			return
		}

		// Lost the race against a concurrent edit: reload and reapply.
		current, err = s.photoRepo.GetByID(ctx, photo.ID)
		if err != nil {
			log.Printf("Enrichment reload failed for %s: %v", photo.Slug, err)
			return
		}
	}

	s.appendTags(ctx, photo.ID, payload.Tags)

	if s.redis != nil {
		_ = s.redis.Del(ctx, photoListCacheKey, photoCacheKey(photo.Slug)).Err()
	}
}

// appendTags attaches each non-blank analysis tag by name. Names are not
// deduplicated against the photo's existing tags; the join table's
// primary key quietly absorbs repeats.
func (s *enrichService) appendTags(ctx context.Context, photoID uuid.UUID, names []string) {
	var ids []uuid.UUID
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || len(name) > domain.MaxTagNameLen {
			continue
		}
		tag, err := s.tagRepo.GetOrCreateByName(ctx, name)
		if err != nil {
			log.Printf("Enrichment tag %q dropped: %v", name, err)
			continue
		}
		ids = append(ids, tag.ID)
	}

	if len(ids) == 0 {
		return
	}
	if err := s.photoRepo.AddTags(ctx, photoID, ids); err != nil {
		log.Printf("Enrichment tag attach failed: %v", err)
	}
}

// parseEnrichment extracts the JSON object from the collaborator's free
// text. Models tend to wrap the object in prose or code fences, so a
// failed direct parse falls back to the outermost brace pair.
func parseEnrichment(response string) (enrichmentPayload, bool) {
	var payload enrichmentPayload
	if err := json.Unmarshal([]byte(response), &payload); err == nil {
		return payload, true
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return enrichmentPayload{}, false
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &payload); err != nil {
		return enrichmentPayload{}, false
	}
	return payload, true
}

// combineText prepends the new value to the existing one, joined with
// " - ", optionally truncating to a length bound.
func combineText(newValue, oldValue string, maxLen int) string {
	combined := newValue
	if oldValue != "" {
		combined = newValue + " - " + oldValue
	}
	if maxLen > 0 && len(combined) > maxLen {
		combined = truncateText(combined, maxLen-2) + ".."
	}
	return combined
}
