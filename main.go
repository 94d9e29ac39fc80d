package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/giygas/inventario-farmacia/config"
	"github.com/giygas/inventario-farmacia/data"
	"github.com/giygas/inventario-farmacia/handlers"
	"github.com/giygas/inventario-farmacia/health"
	"github.com/giygas/inventario-farmacia/inventoryparser"
	"github.com/giygas/inventario-farmacia/logging"
	"github.com/giygas/inventario-farmacia/metrics"
	"github.com/giygas/inventario-farmacia/scheduler"
	"github.com/giygas/inventario-farmacia/search"
	"github.com/giygas/inventario-farmacia/server"
	"github.com/giygas/inventario-farmacia/session"
	"github.com/giygas/inventario-farmacia/validation"
	"github.com/joho/godotenv"
)

func init() {
	// Get the working directory and read the env variables
	if err := godotenv.Load(); err != nil {
		// If failed, try loading from executable directory
		ex, err := os.Executable()
		if err != nil {
			slog.Error("Failed to get executable path", "error", err)
			os.Exit(1)
		}

		exPath := filepath.Dir(ex)
		if err := os.Chdir(exPath); err != nil {
			slog.Error("Failed to change directory", "error", err)
			os.Exit(1)
		}

		// A missing .env is fine, the environment may already be set
		_ = godotenv.Load()
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.InitLoggerWithConfig(cfg.LogDir, logging.ParseLevel(cfg.LogLevel), cfg.LogRetentionWeeks, cfg.MaxLogFileSize)
	defer logging.Close()

	logging.Info("Configuration loaded",
		"env", cfg.Env,
		"catalog_path", cfg.CatalogPath,
		"session_ttl", cfg.SessionTTL.String(),
		"search_strategy", cfg.SearchStrategy)

	parser := inventoryparser.NewInventoryParser()

	catalogStore := data.NewCatalogContainer(cfg.CatalogPath, parser.LoadCatalog)
	catalogStore.SetServerStartTime(time.Now())

	// Load the catalog before serving so the first upload does not pay for it
	catalog := catalogStore.Get()
	metrics.CatalogEntries.Set(float64(catalog.Len()))

	sessionStore := session.NewStore()

	sweeper := scheduler.NewScheduler(sessionStore, cfg.SessionTTL, cfg.SessionSweepInterval)
	if err := sweeper.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}

	handler := handlers.NewHTTPHandler(
		catalogStore,
		sessionStore,
		parser,
		validation.NewDataValidator(),
		health.NewHealthChecker(catalogStore, sessionStore),
		handlers.Options{
			MaxUploadSize: cfg.MaxRequestBody,
			SessionTTL:    cfg.SessionTTL,
			Matcher:       search.NewMatcher(cfg.SearchStrategy),
		},
	)

	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sweeper.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err)
	}
}
