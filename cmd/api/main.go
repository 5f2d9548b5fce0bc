package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"photo-vault/internal/config"
	"photo-vault/internal/handler"
	"photo-vault/internal/middleware"
	"photo-vault/internal/pkg/vision"
	"photo-vault/internal/repository"
	"photo-vault/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (caching disabled)", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (archiving disabled)", err)
		minioClient = nil
	}

	analyzer := vision.NewClient(cfg.VisionURL, cfg.VisionModel, cfg.VisionTemperature, cfg.VisionTimeout)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, minioClient, analyzer, cfg)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    int(cfg.MaxUploadBytes),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	app.Use(middleware.ActorFromToken(cfg.JWTSecret))

	setupRoutes(app, handlers)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	photos := v1.Group("/photos")
	photos.Post("/", h.Photo.Upload)
	photos.Get("/", h.Photo.List)
	photos.Get("/id/:photoId", h.Photo.GetByID)
	photos.Get("/:slug", h.Photo.GetBySlug)
	photos.Put("/:photoId", h.Photo.Update)
	photos.Delete("/:photoId", h.Photo.Delete)

	tags := v1.Group("/tags")
	tags.Get("/", h.Tag.List)
	tags.Get("/:tagId/photos", h.Tag.ListPhotos)
	tags.Put("/:tagId", h.Tag.Rename)
	tags.Delete("/:tagId", h.Tag.Delete)

	albums := v1.Group("/albums")
	albums.Post("/", h.Album.Create)
	albums.Get("/", h.Album.List)
	albums.Get("/:slug", h.Album.GetBySlug)
	albums.Put("/:albumId", h.Album.Update)
	albums.Delete("/:albumId", h.Album.Delete)
	albums.Post("/:albumId/photos", h.Album.AddPhoto)
	albums.Delete("/:albumId/photos/:photoId", h.Album.RemovePhoto)

	shares := v1.Group("/shares")
	shares.Post("/", h.Share.Create)
	shares.Get("/", h.Share.ListMine)
	shares.Delete("/:shareId", h.Share.Revoke)

	v1.Get("/shared/:token", h.Share.Resolve)

	v1.Get("/stats", h.Stats.Overview)
	v1.Get("/audit/recent", h.Audit.ListRecent)
}
