package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"cloudpanel/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheService caches near-static reads: academy content and auth sessions.
// Entitlement snapshots are never cached; they must always reflect the
// current wall clock.
type CacheService interface {
	// Academy content caching
	GetCourses(ctx context.Context, language string) ([]*models.Course, error)
	SetCourses(ctx context.Context, language string, courses []*models.Course, ttl time.Duration) error
	GetLessons(ctx context.Context, courseID uuid.UUID) ([]*models.Lesson, error)
	SetLessons(ctx context.Context, courseID uuid.UUID, lessons []*models.Lesson, ttl time.Duration) error
	InvalidateAcademy(ctx context.Context) error

	// Session management
	SetSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Rate limiting
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as bare host:port.
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "rediss://"), "redis://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func coursesKey(language string) string {
	return fmt.Sprintf("academy:courses:%s", language)
}

func lessonsKey(courseID uuid.UUID) string {
	return fmt.Sprintf("academy:lessons:%s", courseID)
}

func (s *redisCacheService) GetCourses(ctx context.Context, language string) ([]*models.Course, error) {
	data, err := s.client.Get(ctx, coursesKey(language)).Bytes()
	if err != nil {
		return nil, err
	}
	var courses []*models.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *redisCacheService) SetCourses(ctx context.Context, language string, courses []*models.Course, ttl time.Duration) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, coursesKey(language), data, ttl).Err()
}

func (s *redisCacheService) GetLessons(ctx context.Context, courseID uuid.UUID) ([]*models.Lesson, error) {
	data, err := s.client.Get(ctx, lessonsKey(courseID)).Bytes()
	if err != nil {
		return nil, err
	}
	var lessons []*models.Lesson
	if err := json.Unmarshal(data, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (s *redisCacheService) SetLessons(ctx context.Context, courseID uuid.UUID, lessons []*models.Lesson, ttl time.Duration) error {
	data, err := json.Marshal(lessons)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, lessonsKey(courseID), data, ttl).Err()
}

func (s *redisCacheService) InvalidateAcademy(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, "academy:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("Failed to delete cache key %s: %v", iter.Val(), err)
		}
	}
	return iter.Err()
}

func (s *redisCacheService) SetSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, "session:"+sessionID, userID, ttl).Err()
}

func (s *redisCacheService) GetSession(ctx context.Context, sessionID string) (string, error) {
	return s.client.Get(ctx, "session:"+sessionID).Result()
}

func (s *redisCacheService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, "session:"+sessionID).Err()
}

func (s *redisCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := "ratelimit:" + key
	count, err := s.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, fullKey, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (s *redisCacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
