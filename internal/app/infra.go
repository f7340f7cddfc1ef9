package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/minou2442/clinic/config"
	"github.com/minou2442/clinic/pkg/authorize"
	"github.com/minou2442/clinic/pkg/logs"
	"github.com/minou2442/clinic/pkg/observability"
	pasetotoken "github.com/minou2442/clinic/pkg/paseto"
	redispkg "github.com/minou2442/clinic/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideLogger),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideNatsClient),
	fx.Provide(pasetotoken.NewFromConfig),
)

// ProvideLogger builds the process logger and installs it as the slog default.
func ProvideLogger(cfg *config.Config) *slog.Logger {
	logger := logs.New(cfg)
	slog.SetDefault(logger)
	return logger
}

// ProvideRedis returns nil when Redis is disabled; consumers fall back to memory.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		logger.Warn("redis disabled, settings and sessions are kept in memory")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rdb, err := redispkg.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideAuthorization(cfg *config.Config, logger *slog.Logger) (authorize.IAuthorization, error) {
	auth, err := authorize.NewDefaultAuthorization(logger)
	if err != nil {
		return nil, err
	}
	if cfg.Authorization.EnableAudit {
		return authorize.NewAuditedAuthorization(auth, logger), nil
	}
	return auth, nil
}

// ProvideNatsClient returns nil when NATS is disabled.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (*nats.Conn, error) {
	if !cfg.Nats.Enabled {
		return nil, nil
	}

	nc, err := nats.Connect(cfg.Nats.URL,
		nats.Name(cfg.Observability.ServiceName),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.Setup(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
