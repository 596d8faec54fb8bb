package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix for bevec environment variables.
const envPrefix = "BEVEC_"

// Load loads configuration from defaults and environment variables only.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile loads configuration from an optional YAML file, then
// overrides with environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (BEVEC_PROVIDER, BEVEC_QDRANT_HOST, ...)
//  2. YAML config file, if configPath names an existing file
//  3. Hardcoded defaults
//
// Environment variables strip the BEVEC_ prefix and split on the first
// underscore into section and field:
//
//	BEVEC_PROVIDER         -> provider
//	BEVEC_QDRANT_API_KEY   -> qdrant.api_key
//	BEVEC_CHROMEM_PATH     -> chromem.path
//	BEVEC_LOGGING_LEVEL    -> logging.level
//
// QDRANT_API_KEY is additionally recognized without the prefix, matching the
// variable the provider SDK documents.
func LoadWithFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// BEVEC_QDRANT_API_KEY -> qdrant.api_key: strip the prefix,
		// lowercase, split on the first underscore only so field names
		// keep their underscores.
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Provider-documented variable, no BEVEC_ prefix.
	if cfg.Qdrant.APIKey == "" {
		cfg.Qdrant.APIKey = os.Getenv("QDRANT_API_KEY")
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
