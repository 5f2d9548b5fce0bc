package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"photo-vault/internal/domain"
	"photo-vault/internal/middleware"
	"photo-vault/internal/service"
)

type AlbumHandler struct {
	albumService service.AlbumService
}

func NewAlbumHandler(albumService service.AlbumService) *AlbumHandler {
	return &AlbumHandler{albumService: albumService}
}

func (h *AlbumHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateAlbumInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if input.Slug == "" || input.Name == "" {
		return middleware.BadRequest("Album slug and name are required")
	}

	actor := middleware.GetActorID(c)

	album, err := h.albumService.Create(c.Context(), actor, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(album)
}

func (h *AlbumHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	result, err := h.albumService.List(c.Context(), params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AlbumHandler) GetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return middleware.BadRequest("Missing album slug")
	}

	album, err := h.albumService.GetBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrAlbumNotFound) {
			return middleware.NotFound("Album not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(album)
}

func (h *AlbumHandler) Update(c *fiber.Ctx) error {
	albumID, err := uuid.Parse(c.Params("albumId"))
	if err != nil {
		return middleware.BadRequest("Invalid album ID")
	}

	var input domain.UpdateAlbumInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	actor := middleware.GetActorID(c)

	album, err := h.albumService.Update(c.Context(), albumID, actor, input)
	if err != nil {
		if errors.Is(err, domain.ErrAlbumNotFound) {
			return middleware.NotFound("Album not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(album)
}

func (h *AlbumHandler) Delete(c *fiber.Ctx) error {
	albumID, err := uuid.Parse(c.Params("albumId"))
	if err != nil {
		return middleware.BadRequest("Invalid album ID")
	}

	actor := middleware.GetActorID(c)

	if err := h.albumService.Delete(c.Context(), albumID, actor); err != nil {
		if errors.Is(err, domain.ErrAlbumNotFound) {
			return middleware.NotFound("Album not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Album deleted successfully",
	})
}

func (h *AlbumHandler) AddPhoto(c *fiber.Ctx) error {
	albumID, err := uuid.Parse(c.Params("albumId"))
	if err != nil {
		return middleware.BadRequest("Invalid album ID")
	}

	var input struct {
		PhotoID  uuid.UUID `json:"photo_id"`
		Position int       `json:"position"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.albumService.AddPhoto(c.Context(), albumID, input.PhotoID, input.Position); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlbumNotFound):
			return middleware.NotFound("Album not found")
		case errors.Is(err, domain.ErrPhotoNotFound):
			return middleware.NotFound("Photo not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Photo added to album",
	})
}

func (h *AlbumHandler) RemovePhoto(c *fiber.Ctx) error {
	albumID, err := uuid.Parse(c.Params("albumId"))
	if err != nil {
		return middleware.BadRequest("Invalid album ID")
	}

	photoID, err := uuid.Parse(c.Params("photoId"))
	if err != nil {
		return middleware.BadRequest("Invalid photo ID")
	}

	if err := h.albumService.RemovePhoto(c.Context(), albumID, photoID); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Photo removed from album",
	})
}
