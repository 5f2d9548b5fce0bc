package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"photo-vault/internal/domain"
	"photo-vault/internal/middleware"
	"photo-vault/internal/service"
)

type TagHandler struct {
	tagService   service.TagService
	photoService service.PhotoService
}

func NewTagHandler(tagService service.TagService, photoService service.PhotoService) *TagHandler {
	return &TagHandler{
		tagService:   tagService,
		photoService: photoService,
	}
}

func (h *TagHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	result, err := h.tagService.List(c.Context(), params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *TagHandler) ListPhotos(c *fiber.Ctx) error {
	tagID, err := uuid.Parse(c.Params("tagId"))
	if err != nil {
		return middleware.BadRequest("Invalid tag ID")
	}

	if _, err := h.tagService.GetByID(c.Context(), tagID); err != nil {
		if errors.Is(err, domain.ErrTagNotFound) {
			return middleware.NotFound("Tag not found")
		}
		return err
	}

	params := getPaginationParams(c)

	result, err := h.photoService.ListByTag(c.Context(), tagID, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *TagHandler) Rename(c *fiber.Ctx) error {
	tagID, err := uuid.Parse(c.Params("tagId"))
	if err != nil {
		return middleware.BadRequest("Invalid tag ID")
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.tagService.Rename(c.Context(), tagID, input.Name); err != nil {
		switch {
		case errors.Is(err, service.ErrTagNameInvalid):
			return middleware.BadRequest("Tag name is empty or too long")
		case errors.Is(err, domain.ErrTagNotFound):
			return middleware.NotFound("Tag not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Tag renamed successfully",
	})
}

func (h *TagHandler) Delete(c *fiber.Ctx) error {
	tagID, err := uuid.Parse(c.Params("tagId"))
	if err != nil {
		return middleware.BadRequest("Invalid tag ID")
	}

	if err := h.tagService.Delete(c.Context(), tagID); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Tag deleted successfully",
	})
}
