package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fanlane/backstage/internal/domain"
	"github.com/fanlane/backstage/internal/usecase"
)

var tracer = otel.Tracer("identity")

// IdentityMiddleware attaches the authenticated actor, if any, to the
// request context. Absence of identity is never an error; downstream
// components treat it as the unknown role.
type IdentityMiddleware struct {
	identity usecase.IdentityGateway
}

func NewIdentityMiddleware(identity usecase.IdentityGateway) *IdentityMiddleware {
	return &IdentityMiddleware{identity: identity}
}

// SessionID extracts the session identifier from the dedicated header,
// falling back to a bearer token.
func SessionID(c echo.Context) string {
	if v := c.Request().Header.Get(domain.SessionIDHeader); v != "" {
		return v
	}

	authHeader := c.Request().Header.Get("authorization")
	if authHeader == "" {
		return ""
	}
	split := strings.Split(authHeader, " ")
	if len(split) != 2 || split[0] != "Bearer" {
		return ""
	}
	return split[1]
}

func (m *IdentityMiddleware) IdentifyActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Identity.Middleware.IdentifyActor")
		defer span.End()

		sessionID := SessionID(c)
		if sessionID != "" {
			ctx = context.WithValue(ctx, domain.SessionIDCtxKey, sessionID)

			session, err := m.identity.Resolve(ctx, sessionID)
			if err == nil {
				ctx = context.WithValue(ctx, domain.ActorIDCtxKey, session.ActorID)
				ctx = context.WithValue(ctx, domain.ActorRoleCtxKey, session.Role)
				if session.ArtistID != "" {
					ctx = context.WithValue(ctx, domain.ArtistIDCtxKey, session.ArtistID)
				}
				span.SetAttributes(attribute.String("ActorId", session.ActorID))
			} else if !errors.Is(err, domain.ErrNotFound) {
				span.RecordError(pkgerrors.Wrap(err, "IdentityMiddleware: session lookup failed"))
			}
		}

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
