package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fanlane/backstage/internal/domain"
)

// IdentityGateway looks up authenticated sessions in the shared Redis
// session store maintained by the platform's identity service.
type IdentityGateway struct {
	rdb *redis.Client
}

func NewIdentityGateway(rdb *redis.Client) *IdentityGateway {
	return &IdentityGateway{rdb: rdb}
}

func sessionKey(sessionID string) string {
	return "backstage:session:" + sessionID
}

func (g *IdentityGateway) Resolve(ctx context.Context, sessionID string) (domain.Session, error) {
	raw, err := g.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, domain.NotFoundError{Resource: "session"}
		}
		return domain.Session{}, domain.UnavailableError{Op: "session.resolve", Err: err}
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return domain.Session{}, domain.UnavailableError{Op: "session.resolve", Err: err}
	}

	if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(time.Now()) {
		return domain.Session{}, domain.NotFoundError{Resource: "session"}
	}

	return session, nil
}

// Store writes a session record. Exposed for the identity service and for
// local development tooling.
func (g *IdentityGateway) Store(ctx context.Context, session domain.Session) error {
	serialized, err := json.Marshal(session)
	if err != nil {
		return domain.UnavailableError{Op: "session.store", Err: err}
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	if err := g.rdb.Set(ctx, sessionKey(session.Token), serialized, ttl).Err(); err != nil {
		return domain.UnavailableError{Op: "session.store", Err: err}
	}
	return nil
}
