package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/projectfair/server/internal/model"
)

// CredentialCache stores issued session credentials in Redis. Entries
// carry a TTL matching the session window, so abandoned credentials
// expire on their own.
type CredentialCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ model.CredentialCache = (*CredentialCache)(nil)

// NewCredentialCache connects to Redis and verifies the connection.
func NewCredentialCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*CredentialCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &CredentialCache{client: client, ttl: ttl}, nil
}

func credentialKey(userID uuid.UUID) string {
	return "credential:" + userID.String()
}

// Set writes the credential for the user, replacing any previous one.
func (c *CredentialCache) Set(ctx context.Context, userID uuid.UUID, cred model.CachedCredential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	if err := c.client.Set(ctx, credentialKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set credential: %w", err)
	}

	return nil
}

// Get returns the cached credential for the user.
// Returns model.ErrNotFound when no credential is cached.
func (c *CredentialCache) Get(ctx context.Context, userID uuid.UUID) (model.CachedCredential, error) {
	data, err := c.client.Get(ctx, credentialKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.CachedCredential{}, model.ErrNotFound
	}
	if err != nil {
		return model.CachedCredential{}, fmt.Errorf("failed to get credential: %w", err)
	}

	var cred model.CachedCredential
	if err := json.Unmarshal(data, &cred); err != nil {
		return model.CachedCredential{}, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	return cred, nil
}

// Remove deletes the cached credential for the user.
func (c *CredentialCache) Remove(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, credentialKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	return nil
}

// Close closes the underlying Redis connection.
func (c *CredentialCache) Close() error {
	return c.client.Close()
}
