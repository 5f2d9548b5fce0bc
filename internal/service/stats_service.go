package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"photo-vault/internal/repository"
)

const (
	statsCacheKey = "stats:overview"
	statsCacheTTL = 10 * time.Minute
)

type LibraryStats struct {
	PhotoCount int64 `json:"photo_count"`
	TagCount   int64 `json:"tag_count"`
	AlbumCount int64 `json:"album_count"`
	TotalBytes int64 `json:"total_bytes"`
}

type StatsService interface {
	Overview(ctx context.Context) (*LibraryStats, error)
}

type statsService struct {
	photoRepo repository.PhotoRepository
	tagRepo   repository.TagRepository
	albumRepo repository.AlbumRepository
	redis     *redis.Client
}

func NewStatsService(photoRepo repository.PhotoRepository, tagRepo repository.TagRepository, albumRepo repository.AlbumRepository, redisClient *redis.Client) StatsService {
	return &statsService{
		photoRepo: photoRepo,
		tagRepo:   tagRepo,
		albumRepo: albumRepo,
		redis:     redisClient,
	}
}

func (s *statsService) Overview(ctx context.Context) (*LibraryStats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats LibraryStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats := &LibraryStats{}

	var err error
	if stats.PhotoCount, err = s.photoRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TagCount, err = s.tagRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.AlbumCount, err = s.albumRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalBytes, err = s.photoRepo.TotalBytes(ctx); err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			s.redis.Set(ctx, statsCacheKey, data, statsCacheTTL)
		}
	}

	return stats, nil
}
