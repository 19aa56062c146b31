// Package pipeline runs the anonymization passes over whole dataset files:
// batched reads, a worker pool of redaction calls, ordered writes.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GonzaloFuentes1/anonymization-filter/internal/audit"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/cache"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/dataset"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/entities"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/redact"
)

// Pipeline anonymizes one text column of a dataset file. The entity pass
// (when enabled) runs before the identifier pass so that structural
// identifier patterns still match inside text the analyzer left alone, and
// placeholders inserted by the first pass are plain non-matching text for
// the second.
type Pipeline struct {
	redactor *redact.Redactor
	entities *entities.Client      // optional
	cache    *cache.RedactionCache // optional
	audit    *audit.Store          // optional
	config   *Config
	logger   *zap.Logger
	started  time.Time
}

// New creates a pipeline. The entity client, cache, and audit store may be
// nil; the corresponding steps are skipped.
func New(
	redactor *redact.Redactor,
	entityClient *entities.Client,
	redactionCache *cache.RedactionCache,
	auditStore *audit.Store,
	config *Config,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		redactor: redactor,
		entities: entityClient,
		cache:    redactionCache,
		audit:    auditStore,
		config:   config,
		logger:   logger,
	}
}

// ProcessFile anonymizes the configured column of inputPath and writes the
// result to outputPath in the same format. All other columns pass through
// untouched. With DryRun set, rows are processed but nothing is written.
func (p *Pipeline) ProcessFile(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	start := time.Now()
	p.started = start
	result := &Result{}

	format := dataset.DetectFormat(inputPath)
	p.logger.Info("Starting anonymization pipeline",
		zap.String("input", inputPath),
		zap.String("format", string(format)),
		zap.String("column", p.config.Column),
		zap.Int("batch_size", p.config.BatchSize),
		zap.Int("workers", p.config.WorkerCount),
		zap.Bool("entity_pass", p.config.EntityPass && p.entities != nil),
		zap.Bool("dry_run", p.config.DryRun))

	reader, err := dataset.OpenReader(inputPath, format)
	if err != nil {
		return result, err
	}
	defer reader.Close()

	if err := p.checkColumn(reader); err != nil {
		return result, err
	}

	var writer dataset.Writer
	if !p.config.DryRun {
		writer, err = dataset.NewWriterFor(outputPath, reader)
		if err != nil {
			return result, err
		}
		defer writer.Close()
	}

	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		batch, err := p.readBatch(reader, result)
		if err != nil {
			return result, err
		}
		if len(batch) == 0 {
			break
		}

		p.processBatch(ctx, batch, result)

		if writer != nil {
			for _, row := range batch {
				if err := writer.Write(row); err != nil {
					result.WriteFailed++
					result.Errors = append(result.Errors, err.Error())
				}
			}
		}

		result.TotalRecords += int64(len(batch))
		if p.config.ProgressReport > 0 &&
			result.TotalRecords/int64(p.config.ProgressReport) != (result.TotalRecords-int64(len(batch)))/int64(p.config.ProgressReport) {
			p.reportProgress(result)
		}
	}

	result.Duration = time.Since(start)

	p.logger.Info("Anonymization pipeline completed",
		zap.Int64("total_records", result.TotalRecords),
		zap.Int64("redacted_records", result.RedactedRecords),
		zap.Int64("skipped_records", result.SkippedRecords),
		zap.Int64("total_findings", result.TotalFindings),
		zap.Int64("entity_findings", result.EntityFindings),
		zap.Int64("cache_hits", result.CacheHits),
		zap.Duration("duration", result.Duration))

	p.recordRun(ctx, inputPath, outputPath, result)

	return result, nil
}

// checkColumn validates the target column upfront for formats that know
// their columns; JSON-lines rows are checked per record instead.
func (p *Pipeline) checkColumn(reader dataset.Reader) error {
	lister, ok := reader.(interface{ Columns() []string })
	if !ok {
		return nil
	}
	for _, name := range lister.Columns() {
		if name == p.config.Column {
			return nil
		}
	}
	return fmt.Errorf("column %q not found in dataset (columns: %v)", p.config.Column, lister.Columns())
}

// readBatch reads up to BatchSize rows. Malformed records are logged and
// skipped rather than aborting the run.
func (p *Pipeline) readBatch(reader dataset.Reader, result *Result) ([]dataset.Row, error) {
	batch := make([]dataset.Row, 0, p.config.BatchSize)
	for len(batch) < p.config.BatchSize {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			p.logger.Warn("Failed to read record", zap.Error(err))
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		batch = append(batch, row)
	}
	return batch, nil
}

// processBatch redacts a batch with WorkerCount workers. Each row is owned
// by exactly one worker, so only the shared counters need atomics.
func (p *Pipeline) processBatch(ctx context.Context, batch []dataset.Row, result *Result) {
	jobs := make(chan dataset.Row)
	var wg sync.WaitGroup

	for w := 0; w < p.config.WorkerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range jobs {
				p.processRow(ctx, row, result)
			}
		}()
	}

	for _, row := range batch {
		jobs <- row
	}
	close(jobs)
	wg.Wait()
}

// processRow runs the configured passes over one row's text column.
func (p *Pipeline) processRow(ctx context.Context, row dataset.Row, result *Result) {
	text, ok := row.Field(p.config.Column)
	if !ok {
		// Absent or non-text value: pass the row through untouched.
		atomic.AddInt64(&result.SkippedRecords, 1)
		return
	}

	if p.config.UseCache && p.cache != nil {
		if redacted, hit := p.cache.Get(ctx, text); hit {
			atomic.AddInt64(&result.CacheHits, 1)
			if redacted != text {
				atomic.AddInt64(&result.RedactedRecords, 1)
			}
			p.setField(row, redacted)
			return
		}
	}

	out := text

	if p.config.EntityPass && p.entities != nil {
		masked, found, err := p.entities.Mask(ctx, out)
		if err != nil {
			// The passes are independent; a failed entity pass does
			// not block identifier redaction.
			p.logger.Warn("Entity pass failed, continuing with identifier pass", zap.Error(err))
		} else {
			out = masked
			atomic.AddInt64(&result.EntityFindings, int64(len(found)))
		}
	}

	res := p.redactor.Process(out)
	out = res.RedactedText
	atomic.AddInt64(&result.TotalFindings, int64(len(res.Findings)))

	if out != text {
		atomic.AddInt64(&result.RedactedRecords, 1)
	}

	p.setField(row, out)

	if p.config.UseCache && p.cache != nil {
		if err := p.cache.Set(ctx, text, out); err != nil {
			p.logger.Warn("Failed to update cache", zap.Error(err))
		}
	}
}

func (p *Pipeline) setField(row dataset.Row, value string) {
	if err := row.SetField(p.config.Column, value); err != nil {
		p.logger.Warn("Failed to set field", zap.Error(err))
	}
}

// recordRun stores the run in the audit store, best effort.
func (p *Pipeline) recordRun(ctx context.Context, inputPath, outputPath string, result *Result) {
	if p.audit == nil {
		return
	}

	run := &audit.Run{
		InputPath:       inputPath,
		OutputPath:      outputPath,
		ColumnName:      p.config.Column,
		TotalRecords:    result.TotalRecords,
		RedactedRecords: result.RedactedRecords,
		TotalFindings:   result.TotalFindings,
		DurationMS:      result.Duration.Milliseconds(),
	}
	if err := p.audit.RecordRun(ctx, run); err != nil {
		p.logger.Warn("Failed to record audit run", zap.Error(err))
	}
}

func (p *Pipeline) reportProgress(result *Result) {
	elapsed := time.Since(p.started)
	rate := float64(result.TotalRecords) / elapsed.Seconds()

	p.logger.Info("Processing progress",
		zap.Int64("records_processed", result.TotalRecords),
		zap.Int64("redacted_records", result.RedactedRecords),
		zap.Int64("total_findings", result.TotalFindings),
		zap.Float64("rate_per_sec", rate),
		zap.Duration("elapsed", elapsed))
}
