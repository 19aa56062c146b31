package config

import (
	"strings"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	cfg := GetDefaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Anonymizer.Placeholder != "<ID>" {
		t.Errorf("Placeholder = %q, want <ID>", cfg.Anonymizer.Placeholder)
	}
	if cfg.Entities.Language != "es" {
		t.Errorf("Language = %q, want es", cfg.Entities.Language)
	}
	if cfg.Pipeline.Column != "text" {
		t.Errorf("Column = %q, want text", cfg.Pipeline.Column)
	}
	if cfg.Entities.Enabled || cfg.Cache.Enabled || cfg.Audit.Enabled {
		t.Error("External services must be disabled by default")
	}

	if err := validateConfig(cfg); err != nil {
		t.Errorf("Defaults fail validation: %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "BadPort",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "port",
		},
		{
			name:    "EmptyPlaceholder",
			mutate:  func(c *Config) { c.Anonymizer.Placeholder = "" },
			wantErr: "placeholder",
		},
		{
			name: "ExtraPatternWithoutExpr",
			mutate: func(c *Config) {
				c.Anonymizer.ExtraPatterns = []PatternConfig{{Label: "X"}}
			},
			wantErr: "extra pattern",
		},
		{
			name:    "ThresholdOutOfRange",
			mutate:  func(c *Config) { c.Entities.ScoreThreshold = 1.5 },
			wantErr: "threshold",
		},
		{
			name:    "ZeroBatchSize",
			mutate:  func(c *Config) { c.Pipeline.BatchSize = 0 },
			wantErr: "batch size",
		},
		{
			name:    "ZeroWorkers",
			mutate:  func(c *Config) { c.Pipeline.WorkerCount = 0 },
			wantErr: "worker",
		},
		{
			name:    "EmptyColumn",
			mutate:  func(c *Config) { c.Pipeline.Column = "" },
			wantErr: "column",
		},
		{
			name:    "BadLogLevel",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "log level",
		},
		{
			name:    "BadLogFormat",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "log format",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := GetDefaults()
			tc.mutate(cfg)

			err := validateConfig(cfg)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Error = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}
