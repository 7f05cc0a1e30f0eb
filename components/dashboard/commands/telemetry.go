package commands

import (
	"context"
	"errors"
)

// Telemetry allows commands to emit structured events. It matches
// dashboard.Telemetry so one recorder serves both layers.
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

func requireService(name string, missing bool) error {
	if missing {
		return errors.New(name + " command requires service")
	}
	return nil
}
