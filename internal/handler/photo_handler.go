package handler

import (
	"bytes"
	"errors"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"photo-vault/internal/domain"
	"photo-vault/internal/middleware"
	"photo-vault/internal/service"
)

type PhotoHandler struct {
	photoService  service.PhotoService
	uploadService service.UploadService
}

func NewPhotoHandler(photoService service.PhotoService, uploadService service.UploadService) *PhotoHandler {
	return &PhotoHandler{
		photoService:  photoService,
		uploadService: uploadService,
	}
}

// Upload accepts a multipart batch and processes it strictly in stream
// order, so that override fields bind to the file that follows them.
// Fiber's parsed form loses part ordering, so the raw body is re-read.
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	contentType := c.Get(fiber.HeaderContentType)
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return middleware.UnsupportedMediaType("Expected multipart form data")
	}

	boundary, ok := params["boundary"]
	if !ok || boundary == "" {
		return middleware.BadRequest("Missing multipart boundary")
	}

	reader := multipart.NewReader(bytes.NewReader(c.Body()), boundary)
	actor := middleware.GetActorID(c)

	photos, err := h.uploadService.UploadBatch(c.Context(), reader, actor)
	if err != nil {
		if errors.Is(err, service.ErrNotMultipart) {
			return middleware.BadRequest("Request body is not multipart form data")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"count":  len(photos),
		"photos": photos,
	})
}

func (h *PhotoHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	result, err := h.photoService.List(c.Context(), params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PhotoHandler) GetByID(c *fiber.Ctx) error {
	photoID, err := uuid.Parse(c.Params("photoId"))
	if err != nil {
		return middleware.BadRequest("Invalid photo ID")
	}

	photo, err := h.photoService.GetByID(c.Context(), photoID)
	if err != nil {
		if errors.Is(err, domain.ErrPhotoNotFound) {
			return middleware.NotFound("Photo not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(photo)
}

func (h *PhotoHandler) GetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return middleware.BadRequest("Missing photo slug")
	}

	photo, err := h.photoService.GetBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrPhotoNotFound) {
			return middleware.NotFound("Photo not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(photo)
}

func (h *PhotoHandler) Update(c *fiber.Ctx) error {
	photoID, err := uuid.Parse(c.Params("photoId"))
	if err != nil {
		return middleware.BadRequest("Invalid photo ID")
	}

	var input domain.UpdatePhotoInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	actor := middleware.GetActorID(c)

	photo, err := h.photoService.Update(c.Context(), photoID, actor, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPhotoNotFound):
			return middleware.NotFound("Photo not found")
		case errors.Is(err, domain.ErrTitleTooLong):
			return middleware.BadRequest("Title exceeds maximum length")
		case errors.Is(err, domain.ErrVersionConflict):
			return middleware.Conflict("Photo was modified concurrently, retry the update")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(photo)
}

func (h *PhotoHandler) Delete(c *fiber.Ctx) error {
	photoID, err := uuid.Parse(c.Params("photoId"))
	if err != nil {
		return middleware.BadRequest("Invalid photo ID")
	}

	actor := middleware.GetActorID(c)

	if err := h.photoService.Delete(c.Context(), photoID, actor); err != nil {
		if errors.Is(err, domain.ErrPhotoNotFound) {
			return middleware.NotFound("Photo not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Photo deleted successfully",
	})
}
