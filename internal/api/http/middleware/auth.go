package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	pasetotoken "github.com/minou2442/clinic/pkg/paseto"
	"github.com/minou2442/clinic/pkg/reqctx"
)

// SessionValidator reports whether the session behind a token is still live.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID, userID uuid.UUID) error
}

// AuthRequired validates a Bearer PASETO access token and its session.
// On success the claims are stored with pasetotoken.StoreClaims and
// in the request context.
func AuthRequired(mgr *pasetotoken.Manager, sessions SessionValidator) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.ErrUnauthorized
		}

		claims, err := mgr.Verify(token)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		// only access tokens are accepted on protected routes
		if claims.Type != pasetotoken.TokenTypeAccess || claims.SessionID == nil {
			return fiber.ErrUnauthorized
		}

		if err := sessions.ValidateSession(c.Context(), *claims.SessionID, claims.UserID); err != nil {
			return fiber.ErrUnauthorized
		}

		pasetotoken.StoreClaims(c, claims)
		c.SetContext(reqctx.WithClaims(c.Context(), claims))
		return c.Next()
	}
}

func bearerToken(h string) (string, bool) {
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
