// Package redis provides a Redis-backed session store, for resumable
// collection sessions shared across processes.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ggoodman/wizard-go/store"
	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"
)

// Config contains configuration options for the Redis host.
type Config struct {
	// Client is the Redis client instance. Required.
	Client *redis.Client

	// KeyPrefix is the prefix for all Redis keys.
	// Default: "wizard:session:"
	KeyPrefix string

	// TTL expires sessions after this duration. Zero keeps them until
	// deleted.
	TTL time.Duration
}

// envConfig is the environment form of Config, for NewFromEnv.
type envConfig struct {
	Addr      string        `env:"WIZARD_REDIS_ADDR,default=localhost:6379"`
	Password  string        `env:"WIZARD_REDIS_PASSWORD,default="`
	DB        int           `env:"WIZARD_REDIS_DB,default=0"`
	KeyPrefix string        `env:"WIZARD_REDIS_KEY_PREFIX,default="`
	TTL       time.Duration `env:"WIZARD_REDIS_TTL,default=0"`
}

// Host implements store.Host on a Redis client.
type Host struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// storedItem is the envelope written to Redis.
type storedItem struct {
	Data      []byte     `json:"data"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// New creates a Redis-backed host.
func New(config Config) (*Host, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "wizard:session:"
	}
	return &Host{
		client:    config.Client,
		keyPrefix: config.KeyPrefix,
		ttl:       config.TTL,
	}, nil
}

// NewFromEnv creates a Redis-backed host configured from WIZARD_REDIS_*
// environment variables.
func NewFromEnv() (*Host, error) {
	var ec envConfig
	if err := envdecode.Decode(&ec); err != nil {
		return nil, fmt.Errorf("redis: decode environment: %w", err)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     ec.Addr,
		Password: ec.Password,
		DB:       ec.DB,
	})
	return New(Config{Client: client, KeyPrefix: ec.KeyPrefix, TTL: ec.TTL})
}

func (h *Host) key(sessionID string) string {
	return h.keyPrefix + sessionID
}

// Save persists data under the session ID.
func (h *Host) Save(ctx context.Context, sessionID string, data []byte) error {
	now := time.Now()
	item := storedItem{Data: data, CreatedAt: now}
	var expiration time.Duration
	if h.ttl > 0 {
		expires := now.Add(h.ttl)
		item.ExpiresAt = &expires
		expiration = h.ttl
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("redis: marshal session: %w", err)
	}
	if err := h.client.Set(ctx, h.key(sessionID), payload, expiration).Err(); err != nil {
		return fmt.Errorf("redis: save session %s: %w", sessionID, err)
	}
	return nil
}

// Load retrieves the session's data.
func (h *Host) Load(ctx context.Context, sessionID string) ([]byte, error) {
	result := h.client.Get(ctx, h.key(sessionID))
	if err := result.Err(); err != nil {
		if err == redis.Nil {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("redis: load session %s: %w", sessionID, err)
	}
	var item storedItem
	if err := json.Unmarshal([]byte(result.Val()), &item); err != nil {
		return nil, fmt.Errorf("redis: unmarshal session %s: %w", sessionID, err)
	}
	if (&store.Item{Data: item.Data, CreatedAt: item.CreatedAt, ExpiresAt: item.ExpiresAt}).IsExpired() {
		_ = h.client.Del(ctx, h.key(sessionID)).Err()
		return nil, store.ErrNotFound
	}
	return item.Data, nil
}

// Delete removes the session, if present.
func (h *Host) Delete(ctx context.Context, sessionID string) error {
	if err := h.client.Del(ctx, h.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis: delete session %s: %w", sessionID, err)
	}
	return nil
}

// Close closes the underlying client.
func (h *Host) Close() error {
	return h.client.Close()
}
