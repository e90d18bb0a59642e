package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/limaJavier/classscheduler/internal/api/handler"
	"github.com/limaJavier/classscheduler/internal/api/router"
	"github.com/limaJavier/classscheduler/internal/config"
	"github.com/limaJavier/classscheduler/internal/engine"
	"github.com/limaJavier/classscheduler/internal/export"
	applogger "github.com/limaJavier/classscheduler/internal/logger"
	"github.com/limaJavier/classscheduler/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to a yaml config file")
	envFile := flag.String("env", ".env", "Path to a dotenv file with SCHEDULER_* overrides")
	flag.Parse()

	// A missing dotenv file is not an error, the environment may already be set
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "cannot load %v: %v\n", *envFile, err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting class scheduler",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("strategy", cfg.Search.Strategy),
	)

	db, err := store.Open(cfg.Store.DSN)
	if err != nil {
		logger.Fatal("cannot open dataset store", zap.Error(err))
	}
	logger.Info("dataset store ready", zap.String("dsn", cfg.Store.DSN))

	scheduler, err := engine.NewScheduler(cfg, logger)
	if err != nil {
		logger.Fatal("cannot initialize scheduler", zap.Error(err))
	}

	anchor, err := cfg.Export.Anchor()
	if err != nil {
		logger.Fatal("invalid export settings", zap.Error(err))
	}

	datasets := store.NewDatasetRepo(db, logger)
	h := handler.NewHandler(
		handler.NewSchedulerHandler(scheduler, datasets, cfg.Search, export.Term{Start: anchor}, logger),
		handler.NewDatasetHandler(datasets),
	)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router.Setup(h, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}
