package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/GonzaloFuentes1/anonymization-filter/internal/audit"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/cache"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/catalog"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/config"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/dataset"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/entities"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/logger"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/pipeline"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/redact"
)

func main() {
	var (
		configPath = flag.String("config", "", "Configuration file path")
		inputFile  = flag.String("input", "", "Input dataset file (CSV, JSON lines, or Parquet)")
		outputFile = flag.String("output", "", "Output file (default: <input>.anonymized.<ext>)")
		column     = flag.String("column", "", "Text column to anonymize (default from config)")
		batchSize  = flag.Int("batch-size", 0, "Batch size for processing (default from config)")
		workers    = flag.Int("workers", 0, "Number of worker goroutines (default from config)")
		demo       = flag.Bool("demo", false, "Run the built-in demo corpus and print the results")
		dryRun     = flag.Bool("dry-run", false, "Process without writing the output file")
		skipCache  = flag.Bool("skip-cache", false, "Skip the Redis redaction cache")
		noEntities = flag.Bool("no-entities", false, "Skip the external entity analyzer pass")
		showStats  = flag.Bool("stats", false, "Show audit statistics and exit")
	)
	flag.Parse()

	if *inputFile == "" && !*demo && !*showStats {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --input dataset.csv --column text\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input dataset.parquet --workers 8\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --demo\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --stats\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *column != "" {
		cfg.Pipeline.Column = *column
	}
	if *batchSize > 0 {
		cfg.Pipeline.BatchSize = *batchSize
	}
	if *workers > 0 {
		cfg.Pipeline.WorkerCount = *workers
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting anonymization filter",
		zap.String("version", "0.1.0"),
		zap.String("config", *configPath))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, cancelling operations...")
		cancel()
	}()

	services, err := initializeServices(cfg, *skipCache, *noEntities, log)
	if err != nil {
		log.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.cleanup()

	switch {
	case *showStats:
		if err := showAuditStats(ctx, services); err != nil {
			log.Fatal("Failed to show stats", zap.Error(err))
		}
	case *demo:
		if err := runDemo(ctx, services, cfg, log); err != nil {
			log.Fatal("Demo run failed", zap.Error(err))
		}
	default:
		if err := processDataset(ctx, services, cfg, *inputFile, *outputFile, *dryRun, log); err != nil {
			log.Fatal("Dataset processing failed", zap.Error(err))
		}
	}

	log.Info("Anonymization filter completed successfully")
}

// services holds all initialized services
type services struct {
	redactor     *redact.Redactor
	entityClient *entities.Client
	cache        *cache.RedactionCache
	auditStore   *audit.Store
}

func (s *services) cleanup() {
	if s.cache != nil {
		s.cache.Close()
	}
	if s.auditStore != nil {
		s.auditStore.Close()
	}
}

// initializeServices builds the catalog, redactor, and the optional cache,
// analyzer, and audit connections.
func initializeServices(cfg *config.Config, skipCache, noEntities bool, log *logger.Logger) (*services, error) {
	sources := catalog.DefaultSources()
	for _, p := range cfg.Anonymizer.ExtraPatterns {
		sources = append(sources, catalog.Source{Label: p.Label, Expr: p.Expr})
	}

	cat, err := catalog.Build(sources)
	if err != nil {
		return nil, fmt.Errorf("failed to build identifier catalog: %w", err)
	}

	services := &services{
		redactor: redact.New(cat, redact.WithPlaceholder(cfg.Anonymizer.Placeholder)),
	}

	if cfg.Entities.Enabled && !noEntities {
		services.entityClient = entities.NewClient(entities.Config{
			URL:            cfg.Entities.URL,
			Language:       cfg.Entities.Language,
			ScoreThreshold: cfg.Entities.ScoreThreshold,
			Placeholder:    cfg.Entities.Placeholder,
			Timeout:        cfg.Entities.Timeout,
		}, log.WithComponent("entities").Logger)
	}

	if cfg.Cache.Enabled && !skipCache {
		redactionCache, err := cache.New(&cache.Config{
			RedisURL:       cfg.Cache.RedisURL,
			DefaultTTL:     cfg.Cache.DefaultTTL,
			MaxConnections: cfg.Cache.MaxConnections,
			MinIdleConns:   cfg.Cache.MinIdleConns,
		}, log.WithComponent("cache").Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redaction cache: %w", err)
		}
		services.cache = redactionCache
	}

	if cfg.Audit.Enabled {
		store, err := audit.NewStore(&audit.Config{
			DatabaseURL:     cfg.Audit.DatabaseURL,
			MaxOpenConns:    cfg.Audit.MaxOpenConns,
			MaxIdleConns:    cfg.Audit.MaxIdleConns,
			ConnMaxLifetime: cfg.Audit.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Audit.ConnMaxIdleTime,
		}, log.WithComponent("audit").Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audit store: %w", err)
		}
		services.auditStore = store
	}

	return services, nil
}

// processDataset runs the pipeline over the input file.
func processDataset(ctx context.Context, services *services, cfg *config.Config, inputFile, outputFile string, dryRun bool, log *logger.Logger) error {
	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputFile)
	}

	if outputFile == "" {
		outputFile = defaultOutputPath(inputFile)
	}

	pipelineConfig := &pipeline.Config{
		Column:         cfg.Pipeline.Column,
		BatchSize:      cfg.Pipeline.BatchSize,
		WorkerCount:    cfg.Pipeline.WorkerCount,
		ProgressReport: cfg.Pipeline.ProgressReport,
		EntityPass:     services.entityClient != nil,
		UseCache:       services.cache != nil,
		DryRun:         dryRun,
	}

	p := pipeline.New(
		services.redactor,
		services.entityClient,
		services.cache,
		services.auditStore,
		pipelineConfig,
		log.WithComponent("pipeline").Logger,
	)

	result, err := p.ProcessFile(ctx, inputFile, outputFile)
	if err != nil {
		return fmt.Errorf("pipeline processing failed: %w", err)
	}

	log.Info("Dataset processing completed",
		zap.String("input", inputFile),
		zap.String("output", outputFile),
		zap.Int64("total_records", result.TotalRecords),
		zap.Int64("redacted_records", result.RedactedRecords),
		zap.Int64("total_findings", result.TotalFindings),
		zap.Int64("cache_hits", result.CacheHits),
		zap.Duration("duration", result.Duration),
		zap.Float64("records_per_second", float64(result.TotalRecords)/result.Duration.Seconds()))

	if len(result.Errors) > 0 {
		log.Warn("Processing completed with errors", zap.Strings("errors", result.Errors))
	}

	return nil
}

// runDemo writes the demo corpus to a temporary CSV, anonymizes it, and
// prints every input/output pair.
func runDemo(ctx context.Context, services *services, cfg *config.Config, log *logger.Logger) error {
	dir, err := os.MkdirTemp("", "anonymizer-demo")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	texts := dataset.DemoTexts()
	inputPath := filepath.Join(dir, "demo.csv")
	outputPath := filepath.Join(dir, "demo.anonymized.csv")

	if err := writeDemoCSV(inputPath, cfg.Pipeline.Column, texts); err != nil {
		return err
	}

	if err := processDataset(ctx, services, cfg, inputPath, outputPath, false, log); err != nil {
		return err
	}

	reader, err := dataset.OpenCSV(outputPath)
	if err != nil {
		return fmt.Errorf("failed to open demo output: %w", err)
	}
	defer reader.Close()

	fmt.Printf("\n=== Demo Results ===\n")
	for _, original := range texts {
		row, err := reader.Read()
		if err != nil {
			return fmt.Errorf("failed to read demo output: %w", err)
		}
		redacted, _ := row.Field(cfg.Pipeline.Column)
		marker := " "
		if redacted != original {
			marker = "*"
		}
		fmt.Printf("%s %-50q -> %q\n", marker, original, redacted)
	}

	return nil
}

func writeDemoCSV(path, column string, texts []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create demo input: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{column}); err != nil {
		return err
	}
	for _, text := range texts {
		if err := writer.Write([]string{text}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// showAuditStats displays recorded run statistics
func showAuditStats(ctx context.Context, services *services) error {
	if services.auditStore == nil {
		return fmt.Errorf("audit store is not enabled")
	}

	stats, err := services.auditStore.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get audit stats: %w", err)
	}

	fmt.Printf("\n=== Anonymization Run Statistics ===\n")
	fmt.Printf("Total Runs:      %d\n", stats.TotalRuns)
	fmt.Printf("Total Records:   %d\n", stats.TotalRecords)
	fmt.Printf("Total Findings:  %d\n", stats.TotalFindings)

	runs, err := services.auditStore.RecentRuns(ctx, 10)
	if err != nil {
		return fmt.Errorf("failed to list recent runs: %w", err)
	}

	if len(runs) > 0 {
		fmt.Printf("\n=== Recent Runs ===\n")
		for _, run := range runs {
			fmt.Printf("%s  %-30s  records=%d findings=%d duration=%dms\n",
				run.CreatedAt.Format("2006-01-02 15:04:05"),
				filepath.Base(run.InputPath),
				run.TotalRecords,
				run.TotalFindings,
				run.DurationMS)
		}
	}

	if services.cache != nil {
		cacheStats := services.cache.Stats()
		fmt.Printf("\n=== Cache Statistics ===\n")
		fmt.Printf("Cache Hits:      %d\n", cacheStats.Hits)
		fmt.Printf("Cache Misses:    %d\n", cacheStats.Misses)
		fmt.Printf("Hit Rate:        %.1f%%\n", cacheStats.HitRate)
	}

	return nil
}

// defaultOutputPath derives the output name from the input name.
func defaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	return base + ".anonymized" + ext
}
