package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hotelier/backend/internal/domain/integration"
)

// releaseScript deletes the lock key only when the stored token matches,
// so a run whose lock already expired cannot release a successor's lock.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisSyncLock implements the per-integration advisory lock on Redis.
// Suitable for distributed deployments where multiple instances may try to
// run the same integration concurrently.
type RedisSyncLock struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSyncLock creates a lock backed by a new Redis connection
func NewRedisSyncLock(cfg RedisConfig) (*RedisSyncLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSyncLock{
		client:    client,
		keyPrefix: "integration:sync-lock:",
	}, nil
}

// NewRedisSyncLockWithClient creates a lock with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisSyncLockWithClient(client *redis.Client, keyPrefix string) *RedisSyncLock {
	if keyPrefix == "" {
		keyPrefix = "integration:sync-lock:"
	}
	return &RedisSyncLock{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire attempts to take the integration's lock for ttl. It returns the
// holder token on success and ok=false when another run holds the lock.
// SETNX with TTL makes acquisition a single atomic operation.
func (l *RedisSyncLock) Acquire(ctx context.Context, integrationID uuid.UUID, ttl time.Duration) (string, bool, error) {
	key := l.keyPrefix + integrationID.String()
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	if !acquired {
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the lock if token still holds it. Releasing an expired or
// stolen lock is a no-op, not an error.
func (l *RedisSyncLock) Release(ctx context.Context, integrationID uuid.UUID, token string) error {
	key := l.keyPrefix + integrationID.String()
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release sync lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisSyncLock) Close() error {
	return l.client.Close()
}

// Ensure RedisSyncLock implements SyncLock
var _ integration.SyncLock = (*RedisSyncLock)(nil)
