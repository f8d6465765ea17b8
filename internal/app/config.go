package app

import (
	"errors"
	"fmt"

	"github.com/vk/stanrun/internal/report"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RunPath       string // hcl run file or directory
	ToolchainHome string // overrides CMDSTAN_HOME when a model block sets none
	Make          string // build program, "make" when empty

	Workers      int
	CompileOnly  bool
	DryRun       bool
	ReportFormat string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	NotifyURL       string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.RunPath == "" {
		return nil, errors.New("RunPath is a required configuration field and cannot be empty")
	}
	if cfg.DryRun && !cfg.CompileOnly {
		return nil, errors.New("dry-run is only supported together with compile-only")
	}
	switch cfg.ReportFormat {
	case "", report.FormatYAML, report.FormatText:
	default:
		return nil, fmt.Errorf("invalid report format %q: must be %q or %q", cfg.ReportFormat, report.FormatYAML, report.FormatText)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
