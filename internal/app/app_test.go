package app

import (
	"testing"

	"go.uber.org/fx"

	"github.com/minou2442/clinic/config"
	"github.com/minou2442/clinic/internal/service/auth"
	"github.com/minou2442/clinic/internal/service/waitingroom"
)

func TestModulesGraph(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	err := fx.ValidateApp(
		fx.Supply(cfg),
		InfraModule,
		ServiceModule,
		WorkerModule,
		fx.Invoke(func(waitingroom.Service, auth.Service) {}),
	)
	if err != nil {
		t.Fatalf("dependency graph is incomplete: %v", err)
	}
}
