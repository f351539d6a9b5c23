package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis. Sessions live outside every tenant
// schema, which is what makes them survive schema rebinding: the store is
// reachable identically from any tenant context.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "session:"}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + token
}

func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	cp := session.clone()
	cp.Version++

	raw, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	if err := s.client.Set(ctx, s.key(session.Token), raw, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	session.Version = cp.Version
	session.dirty = false
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if session.IsExpired() {
		_ = s.client.Del(ctx, s.key(token)).Err()
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Update saves the session with optimistic concurrency: the stored version
// is compared under WATCH, so a concurrent writer surfaces as
// ErrUpdateConflict instead of being silently overwritten.
func (s *RedisStore) Update(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	key := s.key(session.Token)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("load session for update: %w", err)
		}

		var current Session
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("unmarshal session for update: %w", err)
		}
		if current.Version != session.Version {
			return ErrUpdateConflict
		}

		cp := session.clone()
		cp.Version++
		data, err := json.Marshal(cp)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		ttl := time.Until(session.ExpiresAt)
		if ttl <= 0 {
			return ErrSessionExpired
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		if err != nil {
			return err
		}

		session.Version = cp.Version
		session.dirty = false
		return nil
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrUpdateConflict
	}
	return err
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

// DeleteExpired is a no-op: Redis evicts sessions via per-key TTLs.
func (s *RedisStore) DeleteExpired(ctx context.Context) error {
	return nil
}
