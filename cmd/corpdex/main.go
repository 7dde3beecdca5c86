package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/corpdex/internal/config"
	logpkg "github.com/kailas-cloud/corpdex/internal/logger"
	"github.com/kailas-cloud/corpdex/internal/metrics"
	"github.com/kailas-cloud/corpdex/internal/repository/fixture"
	"github.com/kailas-cloud/corpdex/internal/repository/snapshot"
	chiTransport "github.com/kailas-cloud/corpdex/internal/transport/chi"
	companyuc "github.com/kailas-cloud/corpdex/internal/usecase/company"
	healthuc "github.com/kailas-cloud/corpdex/internal/usecase/health"
	"github.com/kailas-cloud/corpdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting corpdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("data_dir", cfg.Storage.DataDir),
		zap.Int("cache_ttl_sec", cfg.Storage.CacheTTLSec),
	)

	// Register collectors explicitly (no init())
	metrics.Register()

	loader := fixture.New(os.DirFS(cfg.Storage.DataDir), logger).
		WithExtension(cfg.Storage.Extension).
		WithConcurrency(cfg.Storage.LoadConcurrency).
		WithMetrics(metrics.FixtureFilesSkippedTotal, metrics.FixtureRecordsLoadedTotal)

	// Snapshot cache only when a TTL is configured; otherwise every query rereads storage.
	var source companyuc.RecordSource = loader
	if cfg.Storage.CacheTTLSec > 0 {
		source = snapshot.New(loader, time.Duration(cfg.Storage.CacheTTLSec)*time.Second,
			metrics.SnapshotCacheTotal, logger)
	}

	healthSvc := healthuc.New(loader)
	if report := healthSvc.Check(context.Background()); report.Status != healthuc.Healthy {
		logger.Warn("Storage not fully readable at startup",
			zap.String("status", string(report.Status)),
			zap.Any("checks", report.Checks),
		)
	}

	server := chiTransport.NewServer(companyuc.New(source), healthSvc, chiTransport.Limits{
		DefaultLimit: cfg.Query.DefaultLimit,
		MaxLimit:     cfg.Query.MaxLimit,
		MaxIDs:       cfg.Query.MaxIDs,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
