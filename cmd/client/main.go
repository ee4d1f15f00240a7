package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-route-keeper/internal/adapter"
	"github.com/MKhiriev/go-route-keeper/internal/client"
	"github.com/MKhiriev/go-route-keeper/internal/config"
	"github.com/MKhiriev/go-route-keeper/internal/logger"
	"github.com/MKhiriev/go-route-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewClientLogger("route-keeper-client")
	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	log = log.WithLevel(cfg.LogLevel)

	if len(cfg.Args) > 0 && cfg.Args[0] == "build-info" {
		_, _ = models.NewAppBuildInfo(buildVersion, buildDate, buildCommit).WriteTo(os.Stdout)
		return
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(*cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	app, err := client.NewApp(serverAdapter, os.Stdout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = app.Run(ctx, cfg.Args); err != nil {
		stop()
		log.Fatal().Err(err).Msg("client run error")
	}
}
