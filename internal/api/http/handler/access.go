package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/minou2442/clinic/pkg/authorize"
	pasetotoken "github.com/minou2442/clinic/pkg/paseto"
)

type AccessHandler struct {
	auth authorize.IAuthorization
}

func NewAccessHandler(auth authorize.IAuthorization) *AccessHandler {
	return &AccessHandler{auth: auth}
}

// GET /api/v1/navigation
func (h *AccessHandler) Navigation(c fiber.Ctx) error {
	claims, found := pasetotoken.ClaimsFromFiber(c)
	if !found {
		return unauthorized(c)
	}
	return ok(c, authorize.FilterMenu(c.Context(), h.auth, authorize.Role(claims.Role)))
}

// GET /api/v1/navigation/access?path=/waiting-room
//
// Paths outside the menu are reported as not allowed.
func (h *AccessHandler) CheckPath(c fiber.Ctx) error {
	claims, found := pasetotoken.ClaimsFromFiber(c)
	if !found {
		return unauthorized(c)
	}

	path := c.Query("path")
	if path == "" {
		return badRequest(c, "path is required")
	}

	perm, known := authorize.PermissionForPath(path)
	allowed := known && h.auth.HasPermission(c.Context(), authorize.Role(claims.Role), perm)

	return ok(c, fiber.Map{
		"path":       path,
		"permission": perm,
		"allowed":    allowed,
	})
}

// GET /api/v1/permissions
func (h *AccessHandler) Matrix(c fiber.Ctx) error {
	return ok(c, fiber.Map{
		"permissions": authorize.SortedPermissions(),
		"roles":       authorize.Matrix(h.auth),
	})
}
