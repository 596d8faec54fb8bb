// Package config provides configuration loading for bevec.
package config

import (
	"fmt"
)

// Config is the top-level bevec configuration.
type Config struct {
	// Provider selects the vector store backend: "chromem" (default) or
	// "qdrant". Matched case-insensitively at open time.
	Provider string `koanf:"provider"`

	Qdrant  QdrantConfig  `koanf:"qdrant"`
	Chromem ChromemConfig `koanf:"chromem"`
	Logging LoggingConfig `koanf:"logging"`
}

// QdrantConfig configures the remote Qdrant backend.
type QdrantConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// APIKey authenticates against the server. Also read from the
	// QDRANT_API_KEY environment variable.
	APIKey string `koanf:"api_key"`

	UseTLS bool `koanf:"use_tls"`

	// Metric is the distance metric for created collections:
	// cosine (default), euclidean or dotproduct.
	Metric string `koanf:"metric"`
}

// ChromemConfig configures the local embedded chromem backend.
type ChromemConfig struct {
	// Path is the persistence directory. Also read from the
	// BEVEC_CHROMEM_PATH environment variable.
	Path string `koanf:"path"`

	Compress bool `koanf:"compress"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	switch c.Provider {
	case "chromem", "qdrant":
	default:
		return fmt.Errorf("unsupported provider: %s (supported: chromem, qdrant)", c.Provider)
	}

	if c.Qdrant.Port <= 0 || c.Qdrant.Port > 65535 {
		return fmt.Errorf("invalid qdrant port: %d", c.Qdrant.Port)
	}

	switch c.Qdrant.Metric {
	case "cosine", "euclidean", "dotproduct":
	default:
		return fmt.Errorf("invalid qdrant metric: %s (supported: cosine, euclidean, dotproduct)", c.Qdrant.Metric)
	}

	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Provider == "" {
		cfg.Provider = "chromem"
	}

	if cfg.Qdrant.Host == "" {
		cfg.Qdrant.Host = "localhost"
	}
	if cfg.Qdrant.Port == 0 {
		cfg.Qdrant.Port = 6334
	}
	if cfg.Qdrant.Metric == "" {
		cfg.Qdrant.Metric = "cosine"
	}

	if cfg.Chromem.Path == "" {
		cfg.Chromem.Path = "./bevec_db"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}
