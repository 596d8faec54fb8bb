// Package main implements the bevec CLI, a thin command-line surface over
// the unified vector store client.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/XSpoonAi/spoon-BeVec/internal/config"
	"github.com/XSpoonAi/spoon-BeVec/internal/logging"
	"github.com/XSpoonAi/spoon-BeVec/pkg/vecstore"
)

var (
	// configPath is the optional YAML config file.
	configPath string
	// providerName overrides the configured provider when set.
	providerName string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bevec",
	Short: "Unified vector store client",
	Long: `bevec is a command-line interface for vector store operations through
one canonical record shape, regardless of which backend is configured.

Backends: chromem (local embedded store, default) and qdrant (remote gRPC).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "", "vector store provider (overrides config)")
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(collectionsCmd)
	rootCmd.AddCommand(upsertCmd)
	rootCmd.AddCommand(queryCmd)
}

// providersCmd lists the providers known to the default registry.
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List available vector store providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range vecstore.DefaultRegistry().Providers() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

// openProvider loads configuration, builds the logger and opens the selected
// provider through the default registry.
func openProvider() (vecstore.Provider, *zap.Logger, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, nil, err
	}

	name := cfg.Provider
	if providerName != "" {
		name = providerName
	}

	opts := vecstore.Options{
		Qdrant: &vecstore.QdrantConfig{
			Host:   cfg.Qdrant.Host,
			Port:   cfg.Qdrant.Port,
			APIKey: cfg.Qdrant.APIKey,
			UseTLS: cfg.Qdrant.UseTLS,
			Metric: vecstore.Metric(cfg.Qdrant.Metric),
		},
		Chromem: &vecstore.ChromemConfig{
			Path:     cfg.Chromem.Path,
			Compress: cfg.Chromem.Compress,
		},
	}

	provider, err := vecstore.Open(vecstore.DefaultRegistry(), name, opts, logger)
	if err != nil {
		return nil, nil, err
	}
	return provider, logger, nil
}
