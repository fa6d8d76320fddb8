package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tg-autodelete/internal/bot"
	"tg-autodelete/internal/config"
	"tg-autodelete/internal/crash"
	"tg-autodelete/internal/handler"
	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/metrics"
	"tg-autodelete/internal/storage"
	"tg-autodelete/internal/timer"
)

func main() {
	// Define command line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging first
	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	metrics.MustRegister()

	defaultMillis, err := timer.ParseDuration(cfg.Autodelete.DefaultDelay)
	if err != nil {
		log.Fatalf("Invalid autodelete.default_delay %q: %v", cfg.Autodelete.DefaultDelay, err)
	}

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}

	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize bot with configuration
	botService, server, err := bot.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	// Initialize handler with configuration and storage
	handler.Initialize(cfg, store, defaultMillis)

	// Start HTTP server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Give server time to start
	time.Sleep(500 * time.Millisecond)
	log.Println("HTTP server is ready, starting bot handler...")

	// Setup and start message handlers
	handler.SetupMessageHandlers(botService.Handler, botService.Bot)
	crash.SafeGoroutine("bot-handler", botService.Start)

	// Create a channel for receiving OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for signal
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down...", sig)

	botService.Stop()

	// Gracefully shutdown server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// buildStore wires the settings store selected by storage.backend. The
// persistent backends are fronted by the in-memory cache so the per-message
// read path stays off the network.
func buildStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "memory", "":
		logger.Infof("Using in-memory settings store")
		return storage.NewMemoryStore(), nil
	case "mysql":
		if err := storage.Initialize(cfg); err != nil {
			return nil, err
		}
		repo := storage.NewSettingsRepository(storage.GetDB())
		if err := repo.MigrateTable(); err != nil {
			return nil, fmt.Errorf("failed to migrate settings table: %w", err)
		}
		logger.Infof("Using MySQL settings store")
		return storage.NewCachedStore(repo), nil
	case "redis":
		rs, err := storage.NewRedisStore(cfg.Storage.Redis)
		if err != nil {
			return nil, err
		}
		logger.Infof("Using Redis settings store at %s", cfg.Storage.Redis.Addr)
		return storage.NewCachedStore(rs), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
