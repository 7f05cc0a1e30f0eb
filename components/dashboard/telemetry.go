package dashboard

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// PrometheusTelemetry counts dashboard events by name and keeps the widget
// count of the active view.
type PrometheusTelemetry struct {
	events  *prometheus.CounterVec
	widgets prometheus.Gauge
	logger  *zap.Logger
}

// NewPrometheusTelemetry registers the dashboard collectors with reg.
func NewPrometheusTelemetry(reg prometheus.Registerer, logger *zap.Logger) *PrometheusTelemetry {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &PrometheusTelemetry{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_events_total",
			Help: "Dashboard operations by event name.",
		}, []string{"event"}),
		widgets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_widgets",
			Help: "Widgets in the active view.",
		}),
		logger: logger,
	}
	reg.MustRegister(t.events, t.widgets)
	return t
}

// Record implements Telemetry. A numeric "count" in payload updates the widget
// gauge.
func (t *PrometheusTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.events.WithLabelValues(event).Inc()
	if count, ok := payload["count"].(int); ok {
		t.widgets.Set(float64(count))
	}
	t.logger.Debug("dashboard event", zap.String("event", event), zap.Any("payload", payload))
}
