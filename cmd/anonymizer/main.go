package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GonzaloFuentes1/anonymization-filter/internal/catalog"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/config"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/entities"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/logger"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/redact"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/server"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		healthCheck = flag.Bool("health-check", false, "Perform health check and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("anonymization-filter %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if *healthCheck {
		performHealthCheck()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	loggerConfig := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File.Enabled {
		loggerConfig.File = &logger.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		}
	}

	log, err := logger.New(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting anonymization server",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("build_date", date),
		zap.Int("port", cfg.Server.Port),
	)

	cat, err := buildCatalog(cfg)
	if err != nil {
		log.Fatal("Failed to build identifier catalog", zap.Error(err))
	}

	redactor := redact.New(cat, redact.WithPlaceholder(cfg.Anonymizer.Placeholder))

	var entityClient *entities.Client
	if cfg.Entities.Enabled {
		entityClient = entities.NewClient(entities.Config{
			URL:            cfg.Entities.URL,
			Language:       cfg.Entities.Language,
			ScoreThreshold: cfg.Entities.ScoreThreshold,
			Placeholder:    cfg.Entities.Placeholder,
			Timeout:        cfg.Entities.Timeout,
		}, log.WithComponent("entities").Logger)
	}

	srv := server.New(cfg, cat, redactor, entityClient, log)

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Error("Server error", zap.Error(err))
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Stop(ctx); err != nil {
			log.Error("Failed to shutdown server gracefully", zap.Error(err))
			os.Exit(1)
		}

		log.Info("Server shutdown complete")
	}
}

// buildCatalog compiles the built-in patterns plus any configured extras.
func buildCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	sources := catalog.DefaultSources()
	for _, p := range cfg.Anonymizer.ExtraPatterns {
		sources = append(sources, catalog.Source{Label: p.Label, Expr: p.Expr})
	}
	return catalog.Build(sources)
}

// performHealthCheck performs a health check against the running server
func performHealthCheck() {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get("http://localhost:8080/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: HTTP %d\n", resp.StatusCode)
		os.Exit(1)
	}

	fmt.Println("Health check passed")
	os.Exit(0)
}
