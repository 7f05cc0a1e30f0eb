package dashboard

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusTelemetry(t *testing.T) {
	reg := prometheus.NewRegistry()
	telemetry := NewPrometheusTelemetry(reg, nil)

	service := NewService(Options{Telemetry: telemetry})
	ctx := context.Background()
	service.RemoveWidget(ctx, "widget-1")
	service.RemoveWidget(ctx, "widget-2")
	service.DuplicateWidget(ctx, "widget-3")

	assert.Equal(t, 2.0, testutil.ToFloat64(telemetry.events.WithLabelValues("dashboard.widget.delete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(telemetry.events.WithLabelValues("dashboard.widget.duplicate")))
	assert.Equal(t, 5.0, testutil.ToFloat64(telemetry.widgets))

	telemetry.Record(ctx, "custom", map[string]any{"count": "nan"})
	assert.Equal(t, 5.0, testutil.ToFloat64(telemetry.widgets))
}
