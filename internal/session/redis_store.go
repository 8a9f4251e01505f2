// Package session provides the revocation store for issued session tokens.
// Logout places a token's id here with a TTL covering the token's remaining
// lifetime; the auth middleware rejects revoked tokens.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the revocation list interface consumed by the auth middleware.
type Store interface {
	// Revoke marks tokenID as revoked until ttl elapses.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	// IsRevoked reports whether tokenID has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisStore implements Store on Redis. Entries expire with the token they
// revoke, so the list never needs sweeping.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis at redisURL and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, prefix: "revoked:"}, nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "revoked:"}
}

func (s *RedisStore) key(tokenID string) string {
	return s.prefix + tokenID
}

// Revoke marks the token id as revoked for ttl. A non-positive ttl means the
// token has already expired and there is nothing to record.
func (s *RedisStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id appears on the revocation list.
func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, s.key(tokenID)).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup token: %w", err)
	}
	return true, nil
}

// Ping verifies the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
