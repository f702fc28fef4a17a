package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fanlane/backstage/internal/domain"
)

const contextTTL = 24 * time.Hour

// ContextStore persists the resolved session context in Redis. The context
// is always written and read as one JSON value, so a concurrent reader
// never observes a half-merged context.
type ContextStore struct {
	rdb *redis.Client
}

func NewContextStore(rdb *redis.Client) *ContextStore {
	return &ContextStore{rdb: rdb}
}

func contextKey(sessionID string) string {
	return "backstage:context:" + sessionID
}

func (s *ContextStore) Load(ctx context.Context, sessionID string) (domain.Context, error) {
	raw, err := s.rdb.Get(ctx, contextKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Context{}, domain.NotFoundError{Resource: "context"}
		}
		return domain.Context{}, domain.UnavailableError{Op: "context.load", Err: err}
	}

	var stored domain.Context
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return domain.Context{}, domain.UnavailableError{Op: "context.load", Err: err}
	}
	return stored, nil
}

func (s *ContextStore) Save(ctx context.Context, sessionID string, c domain.Context) error {
	serialized, err := json.Marshal(c)
	if err != nil {
		return domain.UnavailableError{Op: "context.save", Err: err}
	}
	if err := s.rdb.Set(ctx, contextKey(sessionID), serialized, contextTTL).Err(); err != nil {
		return domain.UnavailableError{Op: "context.save", Err: err}
	}
	return nil
}

func (s *ContextStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, contextKey(sessionID)).Err(); err != nil {
		return domain.UnavailableError{Op: "context.clear", Err: err}
	}
	return nil
}
