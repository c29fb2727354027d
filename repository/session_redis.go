package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sheet-storefront/models"
)

const redisSessionPrefix = "storefront:session:"

// RedisSessionRepository stores sessions as JSON values with a Redis TTL
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates a Redis client for the given address
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

// NewRedisSessionRepository creates a new RedisSessionRepository
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, ttl: ttl}
}

// Ensure RedisSessionRepository implements SessionRepositoryInterface
var _ SessionRepositoryInterface = (*RedisSessionRepository)(nil)

func redisSessionKey(id string) string {
	return redisSessionPrefix + id
}

// Get loads and decodes a session
func (r *RedisSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := r.client.Get(ctx, redisSessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Save encodes the session and restarts its TTL
func (r *RedisSessionRepository) Save(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, redisSessionKey(session.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}
	return nil
}

// Delete removes the session key
func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisSessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op: Redis expires session keys itself
func (r *RedisSessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
