package main

import (
	"context"
	"flag"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sakay-app/sakay-routing/pkg"
	"github.com/sakay-app/sakay-routing/pkg/engine"
	"github.com/sakay-app/sakay-routing/pkg/fare"
	"github.com/sakay-app/sakay-routing/pkg/http"
	"github.com/sakay-app/sakay-routing/pkg/http/usecases"
	"github.com/sakay-app/sakay-routing/pkg/logger"
	"github.com/sakay-app/sakay-routing/pkg/overpass"
	"github.com/sakay-app/sakay-routing/pkg/util"
)

var (
	snapshotFile = flag.String("snapshot", "", "road network snapshot built by the preprocessor (optional)")
	useRateLimit = flag.Bool("rate_limit", true, "enable per-client api rate limiting")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	if err := util.ReadConfig(); err != nil {
		log.Warn("config file not found, using defaults", zap.Error(err))
	}

	viper.SetDefault("OVERPASS_URL", overpass.DefaultURL)
	viper.SetDefault("OVERPASS_TIMEOUT", "30s")
	viper.SetDefault("SNAP_RADIUS", pkg.DEFAULT_SNAP_RADIUS)
	viper.SetDefault("FETCH_MARGIN", 500.0)

	fetcher := overpass.NewClient(viper.GetString("OVERPASS_URL"), viper.GetDuration("OVERPASS_TIMEOUT"), log)
	routingEngine := engine.New(log, fetcher, fare.TariffFromConfig())

	if *snapshotFile != "" {
		if err := routingEngine.LoadSnapshot(*snapshotFile); err != nil {
			log.Error("failed to load road network snapshot", zap.String("file", *snapshotFile), zap.Error(err))
			os.Exit(1)
		}
	}

	routingService := usecases.NewRoutingService(log, routingEngine,
		viper.GetFloat64("SNAP_RADIUS"), viper.GetFloat64("FETCH_MARGIN"))

	api := http.NewServer(log)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := api.Use(ctx, log, *useRateLimit, routingService); err != nil {
			log.Error("api server stopped", zap.Error(err))
		}
	}()

	sig := http.GracefulShutdown()
	log.Info("Sakay Routing Engine Server Stopped", zap.String("signal", sig.String()))
	cancel()
}
