package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mosjcharts/internal/charts"
	"mosjcharts/internal/config"
	"mosjcharts/internal/fetchers"
	"mosjcharts/internal/logger"
	"mosjcharts/internal/metrics"
	"mosjcharts/internal/mocks"
	"mosjcharts/internal/reports"
	"mosjcharts/internal/server"
	"mosjcharts/internal/storage"
)

// newLogger builds the service logger from the configured level and format
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return logger.New(logger.Config{
		Level:     level,
		Format:    format,
		Output:    os.Stdout,
		Component: "mosjcharts",
	}), nil
}

// newServer wires the fetcher, generator, storage and metrics into a server
func newServer(ctx context.Context, cfg *config.Config, log *logger.Logger, reg *prometheus.Registry) (*server.Server, error) {
	var source reports.ParameterSource = fetchers.NewDataFetcher(fetchers.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.FetchTimeout,
		Retries: cfg.FetchRetries,
	}, log)
	if cfg.MockDataDir != "" {
		log.Info("Mockup mode enabled", logger.Fields{"dir": cfg.MockDataDir})
		source = mocks.NewMockService(cfg.MockDataDir, log)
	}

	generator, err := reports.NewGenerator(log, charts.DefaultSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	store, err := storage.NewStorageClient(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	srv, err := server.NewServer(cfg, server.Dependencies{
		Source:    source,
		Generator: generator,
		Storage:   store,
		Metrics:   metrics.New(reg),
		Gatherer:  reg,
		Logger:    log,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	return srv, nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting MOSJ chart service", logger.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"storage":     cfg.StorageMode,
		"api":         cfg.APIBaseURL,
		"version":     config.GetVersion(),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	srv, err := newServer(ctx, cfg, log, reg)
	if err != nil {
		log.Error("Failed to create server", err)
		os.Exit(1)
	}
	defer srv.Close()

	go func() {
		if err := srv.Start(":" + cfg.Port); err != nil {
			log.Error("HTTP server error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}
}
