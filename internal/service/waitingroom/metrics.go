package waitingroom

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/minou2442/clinic/internal/service/waitingroom"

type metrics struct {
	calls       metric.Int64Counter
	clears      metric.Int64Counter
	chimeStages metric.Int64Counter
	dropped     metric.Int64Counter
	subscribers metric.Int64UpDownCounter
}

// newMetrics registers instruments on the global meter provider; without one
// configured they are no-ops.
func newMetrics() *metrics {
	meter := otel.Meter(meterName)

	calls, _ := meter.Int64Counter(
		"waitingroom_calls_total",
		metric.WithDescription("Patients called to a cabinet"),
		metric.WithUnit("{call}"),
	)
	clears, _ := meter.Int64Counter(
		"waitingroom_clears_total",
		metric.WithDescription("Active calls cleared, by reason"),
		metric.WithUnit("{call}"),
	)
	chimeStages, _ := meter.Int64Counter(
		"waitingroom_chime_stages_total",
		metric.WithDescription("Chime stages delivered to an audio output, by outcome"),
		metric.WithUnit("{stage}"),
	)
	dropped, _ := meter.Int64Counter(
		"waitingroom_events_dropped_total",
		metric.WithDescription("Events not delivered to a slow display subscriber"),
		metric.WithUnit("{event}"),
	)
	subscribers, _ := meter.Int64UpDownCounter(
		"waitingroom_display_subscribers",
		metric.WithDescription("Connected waiting-room displays"),
		metric.WithUnit("{subscriber}"),
	)

	return &metrics{
		calls:       calls,
		clears:      clears,
		chimeStages: chimeStages,
		dropped:     dropped,
		subscribers: subscribers,
	}
}

func (m *metrics) called(cabinet string) {
	if m == nil || m.calls == nil {
		return
	}
	m.calls.Add(context.Background(), 1, metric.WithAttributes(attribute.String("cabinet", cabinet)))
}

func (m *metrics) cleared(reason string) {
	if m == nil || m.clears == nil {
		return
	}
	m.clears.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *metrics) chimeStage(stage int, err error) {
	if m == nil || m.chimeStages == nil {
		return
	}
	outcome := "played"
	switch {
	case errors.Is(err, ErrNoAudioOutput):
		outcome = "no_output"
	case err != nil:
		outcome = "failed"
	}
	m.chimeStages.Add(context.Background(), 1, metric.WithAttributes(
		attribute.Int("stage", stage),
		attribute.String("outcome", outcome),
	))
}

func (m *metrics) droppedEvent() {
	if m == nil || m.dropped == nil {
		return
	}
	m.dropped.Add(context.Background(), 1)
}

func (m *metrics) subscriberDelta(n int64) {
	if m == nil || m.subscribers == nil {
		return
	}
	m.subscribers.Add(context.Background(), n)
}
