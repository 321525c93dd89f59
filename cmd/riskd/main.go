package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/coastwatch/coastal-risk-engine/internal/adapter/httpapi"
	kafkaadapter "github.com/coastwatch/coastal-risk-engine/internal/adapter/kafka"
	"github.com/coastwatch/coastal-risk-engine/internal/calibration"
	"github.com/coastwatch/coastal-risk-engine/internal/config"
	"github.com/coastwatch/coastal-risk-engine/internal/domain"
	"github.com/coastwatch/coastal-risk-engine/internal/engine"
	"github.com/coastwatch/coastal-risk-engine/internal/observability"
	"github.com/coastwatch/coastal-risk-engine/internal/pipeline"
	"github.com/coastwatch/coastal-risk-engine/internal/provider"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	cal := calibration.NewDefault()
	if cfg.CalibrationFile != "" {
		cal, err = calibration.Load(cfg.CalibrationFile)
		if err != nil {
			logger.Error("failed to load calibration", "path", cfg.CalibrationFile, "error", err)
			os.Exit(1)
		}
		logger.Info("calibration loaded", "path", cfg.CalibrationFile)
	}

	// Provider order matters: when two sources report the same kind, the
	// earlier one wins. Storm-track wind/pressure must shadow the ambient
	// forecast, and reef station SST must shadow the marine forecast.
	providers := []engine.Provider{
		provider.NewStormTrack(cfg.StormTrackBaseURL, cfg.ProviderTimeout),
		provider.NewReefWatch(cfg.ReefWatchBaseURL, cfg.ProviderTimeout),
		provider.NewMarine(cfg.MarineBaseURL, cfg.ProviderTimeout),
		provider.NewWeather(cfg.WeatherBaseURL, cfg.ProviderTimeout),
		provider.NewSatellite(cfg.SatelliteBaseURL, cfg.ProviderTimeout),
	}

	eng := engine.New(cal, engine.Options{
		Providers:       providers,
		ProviderTimeout: cfg.ProviderTimeout,
		Area:            cfg.Area,
		CacheSize:       cfg.CacheSize,
	}, logger, metrics)

	var sink pipeline.AlertSink
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		logger.Info("alert publishing enabled", "topic", cfg.KafkaAlertTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("alert publishing disabled")
	}

	home := domain.Location{cfg.HomeLat, cfg.HomeLng}
	poller := pipeline.New(eng, sink, home, cfg.PollInterval, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, eng, poller, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := poller.Run(ctx); err != nil {
			logger.Error("poller error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
