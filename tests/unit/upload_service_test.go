package unit_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"photo-vault/internal/domain"
	"photo-vault/internal/service"
	"photo-vault/tests/mocks"
)

type multipartBuilder struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newMultipartBuilder() *multipartBuilder {
	b := &multipartBuilder{}
	b.writer = multipart.NewWriter(&b.buf)
	return b
}

func (b *multipartBuilder) field(t *testing.T, name, value string) {
	t.Helper()
	require.NoError(t, b.writer.WriteField(name, value))
}

func (b *multipartBuilder) file(t *testing.T, fileName string, data []byte) {
	t.Helper()
	fw, err := b.writer.CreateFormFile("files", fileName)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
}

func (b *multipartBuilder) reader(t *testing.T) *multipart.Reader {
	t.Helper()
	require.NoError(t, b.writer.Close())
	return multipart.NewReader(&b.buf, b.writer.Boundary())
}

func photoWithThumbnail(slug string) *domain.Photo {
	return &domain.Photo{
		ID:   uuid.New(),
		Slug: slug,
		Variants: []domain.Variant{
			{Tier: domain.TierSource, FileName: slug + ".jpg"},
			{Tier: domain.TierThumbnail, FileName: slug + ".jpg"},
		},
	}
}

func TestUploadService_UploadBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Failed Item Does Not Abort Batch", func(t *testing.T) {
		mockIngest := new(mocks.IngestService)
		mockEnrich := new(mocks.EnrichService)
		mockPhotoRepo := new(mocks.PhotoRepository)
		mockAuditRepo := new(mocks.AuditLogRepository)

		svc := service.NewUploadService(mockIngest, mockEnrich, nil, mockPhotoRepo, mockAuditRepo)

		first := photoWithThumbnail("first")
		third := photoWithThumbnail("third")

		mockIngest.On("Ingest", ctx, "a.jpg", []byte("aaa"), domain.UploadOverrides{}, (*uuid.UUID)(nil)).Return(first, nil).Once()
		mockIngest.On("Ingest", ctx, "b.jpg", []byte("bbb"), domain.UploadOverrides{}, (*uuid.UUID)(nil)).Return(nil, errors.New("corrupt image")).Once()
		mockIngest.On("Ingest", ctx, "c.jpg", []byte("ccc"), domain.UploadOverrides{}, (*uuid.UUID)(nil)).Return(third, nil).Once()

		mockPhotoRepo.On("Create", ctx, first).Return(nil).Once()
		mockPhotoRepo.On("Create", ctx, third).Return(nil).Once()
		mockAuditRepo.On("Create", ctx, mock.Anything).Return(nil).Twice()
		mockEnrich.On("Enrich", first).Return().Once()
		mockEnrich.On("Enrich", third).Return().Once()

		b := newMultipartBuilder()
		b.file(t, "a.jpg", []byte("aaa"))
		b.file(t, "b.jpg", []byte("bbb"))
		b.file(t, "c.jpg", []byte("ccc"))

		photos, err := svc.UploadBatch(ctx, b.reader(t), nil)

		assert.NoError(t, err)
		assert.Len(t, photos, 2)
		assert.Equal(t, "first", photos[0].Slug)
		assert.Equal(t, "third", photos[1].Slug)

		mockIngest.AssertExpectations(t)
		mockEnrich.AssertExpectations(t)
		mockPhotoRepo.AssertExpectations(t)
	})

	t.Run("Overrides Bind To Next File Only", func(t *testing.T) {
		mockIngest := new(mocks.IngestService)
		mockEnrich := new(mocks.EnrichService)
		mockPhotoRepo := new(mocks.PhotoRepository)
		mockAuditRepo := new(mocks.AuditLogRepository)

		svc := service.NewUploadService(mockIngest, mockEnrich, nil, mockPhotoRepo, mockAuditRepo)

		first := photoWithThumbnail("custom")
		second := photoWithThumbnail("plain")

		withOverrides := domain.UploadOverrides{
			Title: "Holiday",
			Slug:  "custom",
			Tags:  []string{"beach", "sunset"},
		}
		mockIngest.On("Ingest", ctx, "a.jpg", []byte("aaa"), withOverrides, (*uuid.UUID)(nil)).Return(first, nil).Once()
		mockIngest.On("Ingest", ctx, "b.jpg", []byte("bbb"), domain.UploadOverrides{}, (*uuid.UUID)(nil)).Return(second, nil).Once()

		mockPhotoRepo.On("Create", ctx, mock.Anything).Return(nil).Twice()
		mockAuditRepo.On("Create", ctx, mock.Anything).Return(nil).Twice()
		mockEnrich.On("Enrich", mock.Anything).Return().Twice()

		b := newMultipartBuilder()
		b.field(t, "title", "Holiday")
		b.field(t, "slug", "custom")
		b.field(t, "tags", "beach, sunset")
		b.file(t, "a.jpg", []byte("aaa"))
		b.file(t, "b.jpg", []byte("bbb"))

		photos, err := svc.UploadBatch(ctx, b.reader(t), nil)

		assert.NoError(t, err)
		assert.Len(t, photos, 2)
		mockIngest.AssertExpectations(t)
	})

	t.Run("Overrides Cleared Even When Ingest Fails", func(t *testing.T) {
		mockIngest := new(mocks.IngestService)
		mockEnrich := new(mocks.EnrichService)
		mockPhotoRepo := new(mocks.PhotoRepository)
		mockAuditRepo := new(mocks.AuditLogRepository)

		svc := service.NewUploadService(mockIngest, mockEnrich, nil, mockPhotoRepo, mockAuditRepo)

		second := photoWithThumbnail("plain")

		mockIngest.On("Ingest", ctx, "a.jpg", []byte("aaa"), domain.UploadOverrides{Title: "Holiday"}, (*uuid.UUID)(nil)).Return(nil, errors.New("corrupt image")).Once()
		// The failed file consumed the overrides: the next one is plain.
		mockIngest.On("Ingest", ctx, "b.jpg", []byte("bbb"), domain.UploadOverrides{}, (*uuid.UUID)(nil)).Return(second, nil).Once()

		mockPhotoRepo.On("Create", ctx, second).Return(nil).Once()
		mockAuditRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockEnrich.On("Enrich", second).Return().Once()

		b := newMultipartBuilder()
		b.field(t, "title", "Holiday")
		b.file(t, "a.jpg", []byte("aaa"))
		b.file(t, "b.jpg", []byte("bbb"))

		photos, err := svc.UploadBatch(ctx, b.reader(t), nil)

		assert.NoError(t, err)
		assert.Len(t, photos, 1)
		mockIngest.AssertExpectations(t)
	})

	t.Run("Slug Conflict Skips Item", func(t *testing.T) {
		mockIngest := new(mocks.IngestService)
		mockEnrich := new(mocks.EnrichService)
		mockPhotoRepo := new(mocks.PhotoRepository)
		mockAuditRepo := new(mocks.AuditLogRepository)

		svc := service.NewUploadService(mockIngest, mockEnrich, nil, mockPhotoRepo, mockAuditRepo)

		photo := photoWithThumbnail("taken")
		mockIngest.On("Ingest", ctx, "a.jpg", []byte("aaa"), domain.UploadOverrides{}, (*uuid.UUID)(nil)).Return(photo, nil).Once()
		mockPhotoRepo.On("Create", ctx, photo).Return(domain.ErrSlugTaken).Once()

		b := newMultipartBuilder()
		b.file(t, "a.jpg", []byte("aaa"))

		photos, err := svc.UploadBatch(ctx, b.reader(t), nil)

		assert.NoError(t, err)
		assert.Empty(t, photos)
		mockEnrich.AssertNotCalled(t, "Enrich", mock.Anything)
	})

	t.Run("No Thumbnail Skips Enrichment", func(t *testing.T) {
		mockIngest := new(mocks.IngestService)
		mockEnrich := new(mocks.EnrichService)
		mockPhotoRepo := new(mocks.PhotoRepository)
		mockAuditRepo := new(mocks.AuditLogRepository)

		svc := service.NewUploadService(mockIngest, mockEnrich, nil, mockPhotoRepo, mockAuditRepo)

		small := &domain.Photo{
			ID:   uuid.New(),
			Slug: "tiny",
			Variants: []domain.Variant{
				{Tier: domain.TierSource, FileName: "tiny.jpg"},
			},
		}
		mockIngest.On("Ingest", ctx, "tiny.jpg", []byte("t"), domain.UploadOverrides{}, (*uuid.UUID)(nil)).Return(small, nil).Once()
		mockPhotoRepo.On("Create", ctx, small).Return(nil).Once()
		mockAuditRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		b := newMultipartBuilder()
		b.file(t, "tiny.jpg", []byte("t"))

		photos, err := svc.UploadBatch(ctx, b.reader(t), nil)

		assert.NoError(t, err)
		assert.Len(t, photos, 1)
		mockEnrich.AssertNotCalled(t, "Enrich", mock.Anything)
	})

	t.Run("Archive Scheduled When Configured", func(t *testing.T) {
		mockIngest := new(mocks.IngestService)
		mockEnrich := new(mocks.EnrichService)
		mockArchive := new(mocks.ArchiveService)
		mockPhotoRepo := new(mocks.PhotoRepository)
		mockAuditRepo := new(mocks.AuditLogRepository)

		svc := service.NewUploadService(mockIngest, mockEnrich, mockArchive, mockPhotoRepo, mockAuditRepo)

		photo := photoWithThumbnail("archived")
		mockIngest.On("Ingest", ctx, "a.jpg", []byte("aaa"), domain.UploadOverrides{}, (*uuid.UUID)(nil)).Return(photo, nil).Once()
		mockPhotoRepo.On("Create", ctx, photo).Return(nil).Once()
		mockAuditRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockArchive.On("ScheduleSource", photo).Return().Once()
		mockEnrich.On("Enrich", photo).Return().Once()

		b := newMultipartBuilder()
		b.file(t, "a.jpg", []byte("aaa"))

		photos, err := svc.UploadBatch(ctx, b.reader(t), nil)

		assert.NoError(t, err)
		assert.Len(t, photos, 1)
		mockArchive.AssertExpectations(t)
	})

	t.Run("Nil Reader Rejected", func(t *testing.T) {
		svc := service.NewUploadService(new(mocks.IngestService), new(mocks.EnrichService), nil, new(mocks.PhotoRepository), new(mocks.AuditLogRepository))

		_, err := svc.UploadBatch(ctx, nil, nil)
		assert.ErrorIs(t, err, service.ErrNotMultipart)
	})
}
