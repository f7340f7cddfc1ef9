package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/minou2442/clinic/internal/api/http/handler"
	"github.com/minou2442/clinic/pkg/authorize"
)

func (r *Router) registerAccessRoutes(
	api fiber.Router,
	h *handler.AccessHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Permission) fiber.Handler,
) {
	nav := api.Group("/navigation", authRequired)
	nav.Get("/", h.Navigation)
	nav.Get("/access", h.CheckPath)

	api.Get("/permissions", authRequired, requirePerm(authorize.PermRolesPermissions), h.Matrix)
}
