package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/minou2442/clinic/config"
)

const instrumentationName = "github.com/minou2442/clinic"

// Provider owns the tracer and meter providers installed as otel globals.
type Provider struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

// Setup installs tracing (exported over OTLP/HTTP when an endpoint is set) and
// metrics (exposed to Prometheus through the default registry).
func Setup(ctx context.Context, cfg *config.Config) (*Provider, error) {
	o := cfg.Observability

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			semconv.ServiceName(o.ServiceName),
			semconv.ServiceVersion(o.ServiceVersion),
			semconv.DeploymentEnvironmentName(cfg.Server.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	tp, err := newTracerProvider(ctx, res, o.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	var mp *metric.MeterProvider
	if o.Metrics.Enabled {
		exp, err := prometheus.New()
		if err != nil {
			_ = tp.Shutdown(ctx)
			return nil, fmt.Errorf("init prometheus exporter: %w", err)
		}
		mp = metric.NewMeterProvider(metric.WithResource(res), metric.WithReader(exp))
	} else {
		mp = metric.NewMeterProvider(metric.WithResource(res))
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{TracerProvider: tp, MeterProvider: mp}, nil
}

func newTracerProvider(ctx context.Context, res *resource.Resource, cfg config.TracingConfig) (*trace.TracerProvider, error) {
	rate := cfg.SamplingRate
	if rate <= 0 {
		rate = 1.0
	}

	opts := []trace.TracerProviderOption{
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(rate))),
	}

	if cfg.Enabled && cfg.OTLPEndpoint != "" {
		expOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			expOpts = append(expOpts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptracehttp.New(ctx, expOpts...)
		if err != nil {
			return nil, fmt.Errorf("create OTLP exporter: %w", err)
		}
		opts = append(opts, trace.WithBatcher(exp))
	}

	return trace.NewTracerProvider(opts...), nil
}

// Shutdown flushes both providers, giving them at most five seconds.
func (p *Provider) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
	)
}
