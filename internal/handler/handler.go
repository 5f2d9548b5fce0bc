package handler

import (
	"github.com/gofiber/fiber/v2"

	"photo-vault/internal/domain"
	"photo-vault/internal/service"
)

type Handlers struct {
	Photo *PhotoHandler
	Tag   *TagHandler
	Album *AlbumHandler
	Share *ShareHandler
	Stats *StatsHandler
	Audit *AuditHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Photo: NewPhotoHandler(services.Photo, services.Upload),
		Tag:   NewTagHandler(services.Tag, services.Photo),
		Album: NewAlbumHandler(services.Album),
		Share: NewShareHandler(services.Share),
		Stats: NewStatsHandler(services.Stats),
		Audit: NewAuditHandler(services.Audit),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}
