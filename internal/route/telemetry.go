package route

import (
	"context"

	"github.com/MKhiriev/go-route-keeper/internal/telemetry"
)

// UsageCounter is the sink of route usage counters.
type UsageCounter interface {
	IncrementCounter(ctx context.Context, params telemetry.CounterParams)
}

// recordUsage increments the counter of endpoint tagged with outcome, unless
// the route opted out or no counter is configured.
func recordUsage(ctx context.Context, counter UsageCounter, endpoint Endpoint, opts Options, outcome telemetry.CounterType) {
	if opts.DisableTelemetry || counter == nil {
		return
	}

	counter.IncrementCounter(ctx, telemetry.CounterParams{
		Name: endpoint.String(),
		Type: outcome,
	})
}
