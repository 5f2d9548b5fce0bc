package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"photo-vault/internal/domain"
	"photo-vault/internal/middleware"
	"photo-vault/internal/service"
)

type ShareHandler struct {
	shareService service.ShareService
}

func NewShareHandler(shareService service.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

func (h *ShareHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateShareInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	actor := middleware.GetActorID(c)

	share, err := h.shareService.Create(c.Context(), actor, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrShareTarget):
			return middleware.BadRequest("Provide exactly one of photo_id or album_id")
		case errors.Is(err, domain.ErrPhotoNotFound):
			return middleware.NotFound("Photo not found")
		case errors.Is(err, domain.ErrAlbumNotFound):
			return middleware.NotFound("Album not found")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(share)
}

func (h *ShareHandler) ListMine(c *fiber.Ctx) error {
	actor := middleware.GetActorID(c)
	if actor == nil {
		return middleware.Unauthorized("Authentication required")
	}

	shares, err := h.shareService.ListByCreator(c.Context(), *actor)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(shares)
}

func (h *ShareHandler) Revoke(c *fiber.Ctx) error {
	shareID, err := uuid.Parse(c.Params("shareId"))
	if err != nil {
		return middleware.BadRequest("Invalid share ID")
	}

	actor := middleware.GetActorID(c)

	if err := h.shareService.Revoke(c.Context(), shareID, actor); err != nil {
		if errors.Is(err, domain.ErrShareNotFound) {
			return middleware.NotFound("Share link not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Share link revoked",
	})
}

// Resolve is the public endpoint behind a share token. The optional
// password arrives as a query parameter so the link stays a plain GET.
func (h *ShareHandler) Resolve(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return middleware.BadRequest("Missing share token")
	}

	password := c.Query("password")

	content, err := h.shareService.Resolve(c.Context(), token, password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrShareNotFound):
			return middleware.NotFound("Share link not found or revoked")
		case errors.Is(err, service.ErrSharePassword):
			return middleware.Unauthorized("Wrong share password")
		case errors.Is(err, domain.ErrPhotoNotFound), errors.Is(err, domain.ErrAlbumNotFound):
			return middleware.NotFound("Shared content no longer exists")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(content)
}
