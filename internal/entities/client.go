// Package entities talks to the external PII-entity analyzer service.
//
// The analyzer is an opaque collaborator: it receives raw text and returns
// entity spans (emails, phone numbers, names) with confidence scores. This
// package masks those spans length-preservingly so the identifier pass that
// runs afterwards sees unshifted offsets. What the analyzer detects and how
// is entirely its own business.
package entities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/GonzaloFuentes1/anonymization-filter/internal/catalog"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/redact"
)

// Entity is one span reported by the analyzer. Offsets are code-point
// offsets into the analyzed text.
type Entity struct {
	Type  string  `json:"entity_type"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
}

// Config contains analyzer client configuration.
type Config struct {
	URL            string
	Language       string
	ScoreThreshold float64
	Placeholder    string
	Timeout        time.Duration
}

// Client calls the analyzer service. It is created once per process and is
// safe for concurrent use.
type Client struct {
	config Config
	http   *http.Client
	logger *zap.Logger
}

// analyzeRequest is the analyzer's request payload.
type analyzeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// NewClient creates an analyzer client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Language == "" {
		cfg.Language = "es"
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = "<PII>"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		config: cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Analyze sends text to the analyzer and returns the entities at or above
// the configured score threshold.
func (c *Client) Analyze(ctx context.Context, text string) ([]Entity, error) {
	body, err := json.Marshal(analyzeRequest{Text: text, Language: c.config.Language})
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyzer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analyzer returned HTTP %d: %s", resp.StatusCode, string(payload))
	}

	var all []Entity
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		return nil, fmt.Errorf("failed to decode analyzer response: %w", err)
	}

	entities := make([]Entity, 0, len(all))
	for _, e := range all {
		if e.Score >= c.config.ScoreThreshold {
			entities = append(entities, e)
		}
	}

	c.logger.Debug("Analyzer pass completed",
		zap.Int("entities_total", len(all)),
		zap.Int("entities_kept", len(entities)))

	return entities, nil
}

// Mask analyzes text and overwrites each reported entity span with the
// configured placeholder, padded or truncated to the span width so the
// output keeps the input's rune length.
func (c *Client) Mask(ctx context.Context, text string) (string, []Entity, error) {
	entities, err := c.Analyze(ctx, text)
	if err != nil {
		return text, nil, err
	}
	if len(entities) == 0 {
		return text, entities, nil
	}

	spans := make([]catalog.Span, len(entities))
	for i, e := range entities {
		spans[i] = catalog.Span{Start: e.Start, End: e.End}
	}

	return redact.MaskSpans(text, spans, c.config.Placeholder), entities, nil
}
