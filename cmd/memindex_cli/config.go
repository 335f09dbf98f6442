package main

import (
	"fmt"
	"os"

	"github.com/sushant-115/memindex/pkg/logger"
	"github.com/sushant-115/memindex/pkg/telemetry"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration for the CLI.
type Config struct {
	Logger    logger.Config    `yaml:"logger"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// DefaultConfig returns the configuration used when no file is given:
// info-level console logging and telemetry off.
func DefaultConfig() Config {
	return Config{
		Logger: logger.Config{
			Level:      "info",
			Format:     "console",
			OutputFile: "stderr",
		},
		Telemetry: telemetry.Config{
			Enabled:        false,
			ServiceName:    "memindex",
			PrometheusPort: 9464,
		},
	}
}

// LoadConfig reads a YAML config file, layering it over the defaults. An
// empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
