package pipeline

import "time"

// Config contains batch processing configuration.
type Config struct {
	Column         string `yaml:"column" mapstructure:"column"`                   // "text"
	BatchSize      int    `yaml:"batch_size" mapstructure:"batch_size"`           // 1000
	WorkerCount    int    `yaml:"worker_count" mapstructure:"worker_count"`       // 4
	ProgressReport int    `yaml:"progress_report" mapstructure:"progress_report"` // 1000
	EntityPass     bool   `yaml:"entity_pass" mapstructure:"entity_pass"`
	UseCache       bool   `yaml:"use_cache" mapstructure:"use_cache"`
	DryRun         bool   `yaml:"dry_run" mapstructure:"dry_run"`
}

// Result represents the outcome of processing one dataset.
type Result struct {
	TotalRecords    int64         `json:"total_records"`
	RedactedRecords int64         `json:"redacted_records"`
	SkippedRecords  int64         `json:"skipped_records"`
	TotalFindings   int64         `json:"total_findings"`
	EntityFindings  int64         `json:"entity_findings"`
	CacheHits       int64         `json:"cache_hits"`
	WriteFailed     int64         `json:"write_failed"`
	Duration        time.Duration `json:"duration"`
	Errors          []string      `json:"errors,omitempty"`
}
