// Package telemetry records route usage counters and exposes them in the
// Prometheus exposition format.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CounterType is the outcome a usage counter is tagged with.
type CounterType string

const (
	CounterSuccess CounterType = "success"
	CounterError   CounterType = "error"
)

// CounterParams identifies a single counter increment.
//
// Name is the stable route identifier "<METHOD> <path template>",
// e.g. "GET /internal/items/{id}".
type CounterParams struct {
	Name string
	Type CounterType
}

// UsageCounter is a Prometheus-backed route usage counter.
type UsageCounter struct {
	requests *prometheus.CounterVec
}

// NewUsageCounter creates the counter vector and registers it on reg.
// Registering twice on the same registerer reuses the existing collector.
func NewUsageCounter(reg prometheus.Registerer, namespace string) (*UsageCounter, error) {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_usage_total",
			Help:      "Total number of completed route dispatches by route and outcome",
		},
		[]string{"counter_name", "counter_type"},
	)

	if err := reg.Register(requests); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, fmt.Errorf("error registering usage counter: %w", err)
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("error registering usage counter: %w", err)
		}
		requests = existing
	}

	return &UsageCounter{requests: requests}, nil
}

// IncrementCounter adds one to the counter identified by params.
func (u *UsageCounter) IncrementCounter(_ context.Context, params CounterParams) {
	u.requests.WithLabelValues(params.Name, string(params.Type)).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
