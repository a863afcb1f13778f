package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/timequest/pkg/hero"
)

const profileKeyPrefix = "hero:"

// RedisRepository implements ProfileRepository on Redis, one JSON value
// per hero with no expiry.
type RedisRepository struct {
	client *redis.Client
	logger *slog.Logger
}

var _ ProfileRepository = (*RedisRepository)(nil)

// NewRedisRepository creates a repository from a redis URL.
func NewRedisRepository(redisURL string, logger *slog.Logger) (*RedisRepository, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &RedisRepository{
		client: redis.NewClient(opt),
		logger: logger,
	}, nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available during startup.
func (r *RedisRepository) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisRepository) GetProfile(ctx context.Context, userID string) (*hero.Profile, error) {
	data, err := r.client.Get(ctx, profileKeyPrefix+userID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var p hero.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &p, nil
}

func (r *RedisRepository) SaveProfile(ctx context.Context, p *hero.Profile) error {
	p.UpdatedAt = time.Now()

	data, err := json.Marshal(p)
	if err != nil {
		r.logger.Error("Failed to marshal profile", "user_id", p.ID, "error", err)
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := r.client.Set(ctx, profileKeyPrefix+p.ID, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save profile", "user_id", p.ID, "error", err)
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
