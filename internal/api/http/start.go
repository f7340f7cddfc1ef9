package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/minou2442/clinic/config"
	"github.com/minou2442/clinic/internal/api/http/router"
	"github.com/minou2442/clinic/internal/app"
)

// Start runs the fx application until SIGINT/SIGTERM.
func Start(cfg *config.Config, timeout time.Duration) {
	fx.New(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		app.WorkerModule,
		router.Module,
		Module,

		// requesting *fiber.App forces NewServer and its OnStart hook
		fx.Invoke(func(*fiber.App) {}),

		fx.WithLogger(func(l *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: l.With("component", "fx")}
		}),
		fx.StopTimeout(timeout),
	).Run()
}
