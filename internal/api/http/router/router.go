package router

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/minou2442/clinic/config"
	"github.com/minou2442/clinic/internal/api/http/handler"
	"github.com/minou2442/clinic/internal/api/http/middleware"
	"github.com/minou2442/clinic/internal/service/auth"
	"github.com/minou2442/clinic/internal/service/waitingroom"
	"github.com/minou2442/clinic/pkg/authorize"
	pasetotoken "github.com/minou2442/clinic/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg       *config.Config
	Logger    *slog.Logger
	Redis     *redis.Client `optional:"true"`
	Auth      authorize.IAuthorization
	AuthSvc   auth.Service
	Pager     waitingroom.Service
	PasetoMgr *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.AuthSvc)
	requirePerm := func(perm authorize.Permission) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, perm)
	}

	authH := handler.NewAuthHandler(r.p.AuthSvc, r.p.Logger)
	waitingRoomH := handler.NewWaitingRoomHandler(r.p.Pager, r.p.Logger)
	accessH := handler.NewAccessHandler(r.p.Auth)

	api := app.Group("/api/v1")

	r.registerAuthRoutes(api, authH, authRequired)
	r.registerWaitingRoomRoutes(api, waitingRoomH, authRequired, requirePerm)
	r.registerAccessRoutes(api, accessH, authRequired, requirePerm)

	// display streams only end when the pager closes, so close it before
	// shutdown waits for open connections
	app.Hooks().OnPreShutdown(func() error {
		r.p.Pager.Close()
		return nil
	})
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			if r.p.Redis == nil {
				return true
			}
			return r.p.Redis.Ping(c.Context()).Err() == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		app.Get(r.p.Cfg.Observability.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
