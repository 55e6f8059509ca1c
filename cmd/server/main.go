package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ignite/influencer-roi/internal/api"
	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/datasource"
	"github.com/ignite/influencer-roi/internal/pkg/logger"
	"github.com/ignite/influencer-roi/internal/roi"
	"github.com/ignite/influencer-roi/internal/session"
	"github.com/ignite/influencer-roi/internal/storage"
)

const defaultConfigPath = "config/config.yaml"

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("address %s is already in use: %v\n"+
			"  Hint: Run 'lsof -i :<port>' to find the blocking process", addr, err)
	}
	ln.Close()
	return nil
}

// configPath picks ROI_CONFIG, then the default file when it exists. An
// empty result runs on defaults plus env overrides.
func configPath() string {
	if p := os.Getenv("ROI_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

func main() {
	log.Println("╔════════════════════════════════════════════════════════════╗")
	log.Println("║  Influencer ROI Server (cmd/server/main.go)                ║")
	log.Println("║  Campaign performance, influencer insights, payouts        ║")
	log.Println("╚════════════════════════════════════════════════════════════╝")

	// Load configuration
	cfg, err := config.LoadFromEnv(configPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	logger.SetRedact(cfg.Log.RedactEnabled())

	addr := cfg.Server.Addr()
	if err := checkPortAvailable(addr); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Data source
	source, err := datasource.NewSource(ctx, cfg.DataSource)
	if err != nil {
		log.Fatalf("Failed to initialize data source: %v", err)
	}
	if c, ok := source.(io.Closer); ok {
		defer c.Close()
	}
	log.Printf("Data source: %s", source.Name())

	// Snapshot store
	store, err := session.NewStore(ctx, cfg.Session)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer store.Close()
	log.Printf("Session store: %s", cfg.Session.Type)

	if cfg.Session.ShouldSeed() {
		seeded, err := session.Seed(ctx, store, datasource.Example())
		if err != nil {
			log.Fatalf("Failed to seed example dataset: %v", err)
		}
		if seeded {
			log.Println("Session store seeded with the example dataset")
		}
	}

	// Export archive
	exporter, err := storage.New(ctx, cfg.Export)
	if err != nil {
		log.Fatalf("Failed to initialize export storage: %v", err)
	}
	log.Printf("Export storage: %s", cfg.Export.Type)

	engine := roi.NewEngine(roi.InsightOptions{
		TopN:      cfg.Report.TopN,
		Threshold: cfg.Report.UnderperformThreshold,
	})

	handlers := api.NewHandlers(store, source, engine, exporter)
	handlers.SetMaxUploadBytes(cfg.Server.MaxUploadBytes())
	handlers.SetLoadTimeout(cfg.DataSource.Timeout())
	server := api.NewServer(cfg.Server, handlers, api.NewHealthChecker(store, source))

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	logger.Info("server ready", "addr", addr, "source", source.Name(), "session", cfg.Session.Type, "export", cfg.Export.Type)

	<-done
	log.Println("Shutting down...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
