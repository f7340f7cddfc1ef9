package pasetotoken

import "github.com/gofiber/fiber/v3"

type localsKey struct{}

// StoreClaims attaches verified claims to the request for later handlers.
func StoreClaims(c fiber.Ctx, claims *Claims) {
	c.Locals(localsKey{}, claims)
}

// ClaimsFromFiber returns the claims stored by StoreClaims.
func ClaimsFromFiber(c fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(localsKey{}).(*Claims)
	return claims, ok && claims != nil
}
