package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MKhiriev/go-route-keeper/internal/config"
	"github.com/MKhiriev/go-route-keeper/internal/handler"
	"github.com/MKhiriev/go-route-keeper/internal/handler/http"
	"github.com/MKhiriev/go-route-keeper/internal/logger"
	"github.com/MKhiriev/go-route-keeper/internal/profiler"
	"github.com/MKhiriev/go-route-keeper/internal/route"
	"github.com/MKhiriev/go-route-keeper/internal/server"
	"github.com/MKhiriev/go-route-keeper/internal/service"
	"github.com/MKhiriev/go-route-keeper/internal/store"
	"github.com/MKhiriev/go-route-keeper/internal/telemetry"
	"github.com/MKhiriev/go-route-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	_, _ = models.NewAppBuildInfo(buildVersion, buildDate, buildCommit).WriteTo(os.Stdout)

	log := logger.NewLogger("route-keeper-server")
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	log = log.WithLevel(cfg.App.LogLevel)

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	tp, shutdownTracing, err := telemetry.InitTracing(ctx, telemetry.TracingConfig{
		ServiceName:    cfg.App.PluginName,
		ServiceVersion: cfg.App.Version,
		Sampler:        cfg.Telemetry.TraceSampler,
		SamplerArg:     cfg.Telemetry.TraceSamplerArg,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing tracing")
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Err(err).Msg("error shutting down tracing")
		}
	}()

	db, err := store.NewConnection(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error migrating database")
	}

	services, err := service.NewServices(store.NewStorages(db, log), *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	routeOptions := []route.Option{route.WithTracerProvider(tp)}
	if cfg.Profiling.Enabled {
		routeOptions = append(routeOptions, route.WithProfiler(profiler.New(cfg.Profiling.Dir)))
	}
	handlerOptions := []http.Option{http.WithRouteOptions(routeOptions...)}

	if !cfg.Telemetry.Disabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		usageCounter, err := telemetry.NewUsageCounter(registry, cfg.Telemetry.Namespace)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating usage counter")
		}
		handlerOptions = append(handlerOptions, http.WithUsageCounter(usageCounter), http.WithMetrics(registry))
	}

	handlers, err := handler.NewHandlers(services, cfg, log, handlerOptions...)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(); err != nil {
		log.Err(err).Msg("server stopped with error")
	}
}
