package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/h2non/bimg"

	"photo-vault/internal/domain"
	"photo-vault/internal/repository"
	"photo-vault/internal/storage"
)

var (
	ErrMissingFilename = errors.New("file part has no filename")
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
)

const (
	// Derivative side length = clamp(target * aspectRatio, min, max),
	// applied to both axes; a derivative is only produced when the source
	// exceeds the computed side on both axes.
	mediumTarget = 800
	mediumMin    = 400
	mediumMax    = 1600

	thumbnailTarget = 200
	thumbnailMin    = 100
	thumbnailMax    = 400

	derivativeQuality = 85

	largeFileBytes = 10 * 1024 * 1024
	smallFileBytes = 100 * 1024

	maxSlugBase     = 123
	maxSlugAttempts = 4096
)

// IngestService turns one buffered file section into an on-disk variant
// set plus an unpersisted Photo entity. It never writes to the photo
// store; persistence is the orchestrator's job.
type IngestService interface {
	Ingest(ctx context.Context, fileName string, data []byte, overrides domain.UploadOverrides, actor *uuid.UUID) (*domain.Photo, error)
}

type ingestService struct {
	resolver  storage.Resolver
	photoRepo repository.PhotoRepository
	tagRepo   repository.TagRepository
	maxBytes  int64
	now       func() time.Time
}

func NewIngestService(resolver storage.Resolver, photoRepo repository.PhotoRepository, tagRepo repository.TagRepository, maxBytes int64) IngestService {
	return &ingestService{
		resolver:  resolver,
		photoRepo: photoRepo,
		tagRepo:   tagRepo,
		maxBytes:  maxBytes,
		now:       time.Now,
	}
}

func (s *ingestService) Ingest(ctx context.Context, fileName string, data []byte, overrides domain.UploadOverrides, actor *uuid.UUID) (*domain.Photo, error) {
	if fileName == "" {
		return nil, ErrMissingFilename
	}

	safe, err := storage.Sanitize(fileName)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(data))
	}

	format, err := storage.Sniff(safe, data)
	if err != nil {
		return nil, err
	}

	uploadedAt := s.now().UTC()

	srcDir, err := s.resolver.EnsureDir(domain.TierSource, uploadedAt)
	if err != nil {
		return nil, err
	}

	// Collision probing happens against the SOURCE directory only; the
	// resolved name is reused verbatim for every derivative tier.
	final, collisions, err := storage.ResolveCollisions(srcDir, safe)
	if err != nil {
		return nil, err
	}

	var written []string
	cleanup := func() {
		for _, path := range written {
			if err := os.Remove(path); err != nil {
				log.Printf("Failed to remove partial file %s: %v", path, err)
			}
		}
	}

	srcPath := filepath.Join(srcDir, final.String())
	if err := os.WriteFile(srcPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrStorageUnavailable, err)
	}
	written = append(written, srcPath)

	img := bimg.NewImage(data)
	size, err := img.Size()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: %v", storage.ErrUnrecognizedFormat, err)
	}
	width, height := size.Width, size.Height

	createdAt, resolution := extractCaptureMetadata(data, uploadedAt)

	photo := &domain.Photo{
		ID:         uuid.New(),
		CreatedAt:  createdAt,
		UploadedAt: uploadedAt,
		UploadedBy: actor,
		Variants: []domain.Variant{{
			ID:       uuid.New(),
			Tier:     domain.TierSource,
			Path:     srcDir,
			FileName: final.String(),
			ByteSize: int64(len(data)),
			Width:    width,
			Height:   height,
		}},
	}

	aspect := aspectRatio(width, height)
	tiers := []struct {
		tier             domain.SizeTier
		target, min, max int
	}{
		{domain.TierMedium, mediumTarget, mediumMin, mediumMax},
		{domain.TierThumbnail, thumbnailTarget, thumbnailMin, thumbnailMax},
	}

	for _, t := range tiers {
		side := clamp(int(float64(t.target)*aspect), t.min, t.max)
		if width <= side || height <= side {
			continue
		}

		variant, err := s.writeDerivative(img, t.tier, side, final, format, uploadedAt)
		if err != nil {
			cleanup()
			return nil, err
		}
		written = append(written, filepath.Join(variant.Path, variant.FileName))
		photo.Variants = append(photo.Variants, *variant)
	}

	slug, err := s.resolveSlug(ctx, overrides.Slug, safe, uploadedAt)
	if err != nil {
		cleanup()
		return nil, err
	}
	photo.Slug = slug

	title := overrides.Title
	if title == "" {
		title = safe.String()
		if collisions > 0 {
			title = fmt.Sprintf("%s (#%d)", title, collisions)
		}
	}
	if len(title) > domain.MaxTitleLen {
		cleanup()
		return nil, domain.ErrTitleTooLong
	}
	photo.Title = title

	photo.Summary = buildSummary(title, width, height, int64(len(data)))
	photo.Description = buildDescription(createdAt, uploadedAt, srcPath, width, height, int64(len(data)), resolution, collisions)

	tags, err := s.resolveTags(ctx, overrides.Tags, createdAt, uploadedAt, int64(len(data)), collisions)
	if err != nil {
		cleanup()
		return nil, err
	}
	photo.Tags = tags

	return photo, nil
}

func (s *ingestService) writeDerivative(img *bimg.Image, tier domain.SizeTier, side int, name storage.SafeName, format storage.Format, date time.Time) (*domain.Variant, error) {
	dir, err := s.resolver.EnsureDir(tier, date)
	if err != nil {
		return nil, err
	}

	processed, err := img.Process(bimg.Options{
		Width:   side,
		Height:  side,
		Force:   true,
		Quality: derivativeQuality,
		Type:    encodeType(format),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnrecognizedFormat, err)
	}

	outSize, err := bimg.NewImage(processed).Size()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnrecognizedFormat, err)
	}

	path := filepath.Join(dir, name.String())
	if err := os.WriteFile(path, processed, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrStorageUnavailable, err)
	}

	return &domain.Variant{
		ID:       uuid.New(),
		Tier:     tier,
		Path:     dir,
		FileName: name.String(),
		ByteSize: int64(len(processed)),
		Width:    outSize.Width,
		Height:   outSize.Height,
	}, nil
}

// encodeType picks the output codec for derivatives; formats libvips
// cannot encode fall back to JPEG.
func encodeType(format storage.Format) bimg.ImageType {
	switch format.Ext {
	case "png":
		return bimg.PNG
	case "webp":
		return bimg.WEBP
	case "tif":
		return bimg.TIFF
	default:
		return bimg.JPEG
	}
}

func (s *ingestService) resolveSlug(ctx context.Context, override string, safe storage.SafeName, uploadedAt time.Time) (string, error) {
	if override != "" {
		if len(override) > domain.MaxSlugLen {
			return "", domain.ErrSlugTooLong
		}
		return override, nil
	}

	candidate := uploadedAt.Format("2006-01-02") + "-" + safe.Base
	if len(candidate) > maxSlugBase {
		// Truncate to 123 and append the original length so two long
		// names that share a prefix still diverge.
		candidate = truncateText(candidate, maxSlugBase) + strconv.Itoa(len(candidate))
	}

	slug := candidate
	for n := 2; ; n++ {
		exists, err := s.photoRepo.ExistsBySlug(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
		if n > maxSlugAttempts {
			return "", domain.ErrSlugTooLong
		}
		slug = candidate + "-" + strconv.Itoa(n)
	}

	if len(slug) > domain.MaxSlugLen {
		return "", domain.ErrSlugTooLong
	}
	return slug, nil
}

func (s *ingestService) resolveTags(ctx context.Context, explicit []string, createdAt, uploadedAt time.Time, byteSize int64, collisions int) ([]domain.Tag, error) {
	names := make([]string, 0, len(explicit)+3)
	seen := make(map[string]bool)
	for _, name := range explicit {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] || len(name) > domain.MaxTagNameLen {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	// Automatic tags: the capture year (only when EXIF gave us a real
	// capture time), a size category and a copy marker.
	if !createdAt.Equal(uploadedAt) {
		if year := strconv.Itoa(createdAt.Year()); !seen[year] {
			seen[year] = true
			names = append(names, year)
		}
	}
	switch {
	case byteSize >= largeFileBytes:
		if !seen["Large file"] {
			names = append(names, "Large file")
		}
	case byteSize <= smallFileBytes:
		if !seen["Small file"] {
			names = append(names, "Small file")
		}
	}
	if collisions > 0 && !seen["Copy"] {
		names = append(names, "Copy")
	}

	tags := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		tag, err := s.tagRepo.GetOrCreateByName(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func buildSummary(title string, width, height int, byteSize int64) string {
	summary := fmt.Sprintf("%s - %dx%d, %s", title, width, height, humanize.Bytes(uint64(byteSize)))
	if len(summary) > domain.MaxSummaryLen {
		summary = truncateText(summary, domain.MaxSummaryLen-2) + ".."
	}
	return summary
}

func buildDescription(createdAt, uploadedAt time.Time, srcPath string, width, height int, byteSize int64, resolution string, collisions int) string {
	verb := "Uploaded"
	when := uploadedAt
	if !createdAt.Equal(uploadedAt) {
		verb = "Taken"
		when = createdAt
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s in %s. Stored at %s, %dx%d px, %s",
		verb, when.Format("January 2006"), srcPath, width, height, humanize.Bytes(uint64(byteSize)))
	if resolution != "" {
		fmt.Fprintf(&b, ", %s", resolution)
	}
	b.WriteString(".")
	if collisions > 0 {
		fmt.Fprintf(&b, " Potentially a copy of %d other file(s).", collisions)
	}
	return b.String()
}

// truncateText shortens s to at most n bytes, backing the cut off a
// split multibyte rune so the result stays valid UTF-8.
func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 {
		if r, size := utf8.DecodeLastRuneInString(s); r != utf8.RuneError || size > 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}

func aspectRatio(width, height int) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	if width > height {
		return float64(width) / float64(height)
	}
	return float64(height) / float64(width)
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
