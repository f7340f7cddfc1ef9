package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/minou2442/clinic/config"
	"github.com/minou2442/clinic/internal/service/auth"
	"github.com/minou2442/clinic/internal/service/waitingroom"
	"github.com/minou2442/clinic/pkg/authorize"
	"github.com/minou2442/clinic/pkg/observability"
	pasetotoken "github.com/minou2442/clinic/pkg/paseto"
	"github.com/minou2442/clinic/pkg/util/password"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvidePasswordHasher,
		ProvideAuthService,
		ProvideWaitingRoom,
	),
)

func ProvidePasswordHasher(cfg *config.Config) *password.Hasher {
	return password.NewHasher(password.FromCentralConfig(cfg.Password))
}

func ProvideAuthService(
	cfg *config.Config,
	rdb *redis.Client,
	paseto *pasetotoken.Manager,
	authz authorize.IAuthorization,
	hasher *password.Hasher,
	logger *slog.Logger,
) (auth.Service, error) {
	var store auth.Store = auth.NewMemoryStore()
	if rdb != nil {
		store = auth.NewRedisStore(rdb)
	}
	if len(cfg.Staff) == 0 {
		logger.Warn("no staff accounts configured, nobody can sign in")
	}
	return auth.New(cfg, store, paseto, authz, hasher, logger)
}

type WaitingRoomParams struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    *config.Config
	Logger *slog.Logger
	Redis  *redis.Client
	NC     *nats.Conn
	// instruments are created after the meter provider is installed
	OTel *observability.Provider `optional:"true"`
}

func ProvideWaitingRoom(p WaitingRoomParams) waitingroom.Service {
	wr := p.Cfg.WaitingRoom

	opts := waitingroom.Options{
		AutoClear:        time.Duration(wr.AutoClearSeconds) * time.Second,
		HistorySize:      wr.HistorySize,
		DisplayHistory:   wr.DisplayHistory,
		SubscriberBuffer: wr.SubscriberBuffer,
		AudioEnabled:     wr.Audio.Enabled,
		SampleRate:       wr.Audio.SampleRate,
		Logger:           p.Logger,
	}
	if p.Redis != nil {
		opts.Store = waitingroom.NewRedisStore(p.Redis, wr.SettingsKey)
	}
	if p.NC != nil {
		opts.Publisher = waitingroom.NewNatsPublisher(p.NC, p.Cfg.Nats.SubjectPrefix)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	svc := waitingroom.New(ctx, opts)

	p.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			svc.Close()
			return nil
		},
	})
	return svc
}
