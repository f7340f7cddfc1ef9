package observability

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"

	"github.com/minou2442/clinic/config"
)

func TestSetup(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Observability.ServiceName = "dentaldesk"

	p, err := Setup(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if otel.GetTracerProvider() != p.TracerProvider {
		t.Error("tracer provider was not installed globally")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestFiberMiddleware_TraceHeader(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.ServiceName = "dentaldesk"

	p, err := Setup(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Shutdown(context.Background())

	app := fiber.New()
	app.Use(FiberMiddleware())
	app.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/boom", func(c fiber.Ctx) error { return fiber.ErrBadGateway })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.Get("X-Trace-Id") == "" {
		t.Error("X-Trace-Id header missing")
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
