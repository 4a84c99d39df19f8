// Package otel provides OpenTelemetry instruments and spans for councild.
// Exporter wiring is left to the host process; without a configured SDK the
// global providers are no-ops.
package otel

import (
	"context"
	"log/slog"
)

// ShutdownFunc is called to flush and shut down the trace provider.
type ShutdownFunc func(ctx context.Context) error

// InitTracer returns a no-op shutdown function. Deployments that export
// traces install an SDK provider before calling this.
func InitTracer(serviceName string) ShutdownFunc {
	slog.Info("otel tracer ready", "service", serviceName)
	return func(_ context.Context) error {
		return nil
	}
}
