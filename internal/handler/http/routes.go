package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-route-keeper/internal/route"
	"github.com/MKhiriev/go-route-keeper/internal/telemetry"
)

func (h *Handler) Init() (*chi.Mux, error) {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	if h.gatherer != nil {
		router.Method(http.MethodGet, "/metrics", telemetry.Handler(h.gatherer))
	}

	opts := []route.Option{route.WithErrorStatuses(errorStatusMap)}
	if h.config.App.PluginName != "" {
		opts = append(opts, route.WithPluginName(h.config.App.PluginName))
	}
	opts = append(opts, h.routeOptions...)

	if _, err := route.Register(router, h.routes(), h.resources(), opts...); err != nil {
		return nil, err
	}

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router, nil
}

func (h *Handler) routes() route.Repository {
	return route.Repository{
		"get_item": {
			Endpoint: "GET /internal/items/{id}",
			Params:   getItemParams{},
			Handler:  h.getItem,
		},
		"search_items": {
			Endpoint: "GET /internal/items",
			Params:   searchItemsParams{},
			Handler:  h.searchItems,
		},
		"create_item": {
			Endpoint: "POST /internal/items",
			Params:   createItemParams{},
			Handler:  h.createItem,
		},
		"get_version": {
			Endpoint: "GET /internal/version",
			Options:  route.Options{DisableTelemetry: true},
			Handler:  h.getServerVersion,
		},
	}
}
