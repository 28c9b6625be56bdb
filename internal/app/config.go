package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command      string // "validate" or "plan"
	ManifestPath string // manifest file, or a directory holding service.yaml
	Environment  string // target environment for plan
	PlatformPath string // optional platform defaults override file (hcl)
	RegistryURL  string // optional remote schema registry base URL

	Workers      int
	Timeout      time.Duration
	OutputFormat string
	LogFormat    string
	LogLevel     string
}

// NewConfig validates a Config and fills in defaults. All enum-valued fields
// are checked here, once, so the CLI layer and the logger can rely on them.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Command != "validate" && cfg.Command != "plan" {
		return nil, errors.New("Command must be 'validate' or 'plan'")
	}
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	switch cfg.OutputFormat {
	case "":
		cfg.OutputFormat = "yaml"
	case "yaml", "json":
	default:
		return nil, errors.New("invalid output: must be 'yaml' or 'json'")
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	return &cfg, nil
}
