package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/minou2442/clinic/pkg/authorize"
	pasetotoken "github.com/minou2442/clinic/pkg/paseto"
)

// RequirePermission lets the request through only if the caller's role is
// granted perm. It must run after AuthRequired.
func RequirePermission(auth authorize.IAuthorization, perm authorize.Permission) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok := pasetotoken.ClaimsFromFiber(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		if !auth.HasPermission(c.Context(), authorize.Role(claims.Role), perm) {
			return fiber.ErrForbidden
		}
		return c.Next()
	}
}
