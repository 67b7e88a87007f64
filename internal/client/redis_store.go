package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

// DefaultRedisPrefix namespaces token keys
const DefaultRedisPrefix = "myinvois:token:"

// RedisTokenStore shares tokens between processes through redis.
// Keys expire with the token.
type RedisTokenStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisTokenStore creates a store; an empty prefix means DefaultRedisPrefix
func NewRedisTokenStore(client redis.UniversalClient, prefix string) *RedisTokenStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisTokenStore{client: client, prefix: prefix}
}

// Get returns the stored token or nil when the key is missing
func (s *RedisTokenStore) Get(ctx context.Context, key string) (*oauth2.Token, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get token: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode stored token: %w", err)
	}
	return &tok, nil
}

// Set stores tok until it expires. Tokens without expiry are not stored.
func (s *RedisTokenStore) Set(ctx context.Context, key string, tok *oauth2.Token) error {
	if tok == nil || tok.Expiry.IsZero() {
		return nil
	}
	ttl := time.Until(tok.Expiry)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}
