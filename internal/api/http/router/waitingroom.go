package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/minou2442/clinic/internal/api/http/handler"
	"github.com/minou2442/clinic/pkg/authorize"
)

func (r *Router) registerWaitingRoomRoutes(
	api fiber.Router,
	h *handler.WaitingRoomHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Permission) fiber.Handler,
) {
	staff := api.Group("/waiting-room", authRequired, requirePerm(authorize.PermWaitingRoom))
	staff.Post("/call", h.Call)
	staff.Get("/current", h.Current)
	staff.Delete("/current", h.Dismiss)
	staff.Get("/history", h.History)
	staff.Get("/settings", h.Settings)
	staff.Patch("/settings", h.UpdateSettings)
	staff.Post("/chime", h.Chime)

	// public: the waiting-room screens are unauthenticated kiosks
	display := api.Group("/display")
	display.Get("/", h.Display)
	display.Get("/stream", h.Stream)
}
