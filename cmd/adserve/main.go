package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vidora/adserve/internal/config"
	"github.com/vidora/adserve/internal/database"
	"github.com/vidora/adserve/internal/httpserver"
	"github.com/vidora/adserve/internal/metrics"
	"github.com/vidora/adserve/internal/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := middleware.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting adserve",
		zap.String("env", cfg.Server.Env),
		zap.String("addr", cfg.Server.Addr),
	)

	ctx := context.Background()

	// Every backing store is optional at startup. Missing ones degrade
	// to in-process implementations so local development needs nothing
	// but the binary.
	var db *database.PostgresDB
	db, err = database.NewPostgresDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Warn("PostgreSQL not available, using in-memory storage", zap.Error(err))
		db = nil
	} else {
		defer db.Close()
	}

	var rdb *database.RedisDB
	rdb, err = database.NewRedisDB(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis not available, seen-ad tracking kept in process", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	var ch *database.ClickHouseDB
	if cfg.ClickHouse.Enabled {
		ch, err = database.NewClickHouseDB(ctx, cfg.ClickHouse, logger)
		if err != nil {
			logger.Warn("ClickHouse not available, raw events go to primary store", zap.Error(err))
			ch = nil
		} else {
			defer ch.Close()
		}
	}

	m := metrics.NewMetrics("adserve")

	deps := &httpserver.Dependencies{
		DB:         db,
		Redis:      rdb,
		ClickHouse: ch,
		Config:     cfg,
		Logger:     logger,
		Metrics:    m,
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpserver.NewServer(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
