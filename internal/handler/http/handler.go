package http

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/go-route-keeper/internal/config"
	"github.com/MKhiriev/go-route-keeper/internal/logger"
	"github.com/MKhiriev/go-route-keeper/internal/route"
	"github.com/MKhiriev/go-route-keeper/internal/service"
)

type Handler struct {
	services *service.Services
	config   *config.StructuredConfig

	usageCounter route.UsageCounter
	gatherer     prometheus.Gatherer
	routeOptions []route.Option

	logger *logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithUsageCounter counts every dispatched route on c.
func WithUsageCounter(c route.UsageCounter) Option {
	return func(h *Handler) {
		h.usageCounter = c
	}
}

// WithMetrics serves the metrics gathered by g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(h *Handler) {
		h.gatherer = g
	}
}

// WithRouteOptions passes opts to the route dispatcher.
func WithRouteOptions(opts ...route.Option) Option {
	return func(h *Handler) {
		h.routeOptions = append(h.routeOptions, opts...)
	}
}

func NewHandler(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services: services,
		config:   cfg,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	logger.Info().Msg("http handler created")
	return h
}

func (h *Handler) resources() route.Resources {
	return route.Resources{
		Logger:       h.logger,
		Config:       h.config,
		Services:     h.services,
		UsageCounter: h.usageCounter,
		Version:      h.config.App.Version,
	}
}
