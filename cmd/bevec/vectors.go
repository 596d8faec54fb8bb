package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/XSpoonAi/spoon-BeVec/pkg/vecstore"
)

var (
	queryVector string
	queryTopK   int
)

func init() {
	queryCmd.Flags().StringVar(&queryVector, "vector", "", "comma-separated query vector (required)")
	queryCmd.Flags().IntVar(&queryTopK, "top-k", 10, "number of results to return")
	_ = queryCmd.MarkFlagRequired("vector")
}

var upsertCmd = &cobra.Command{
	Use:   "upsert <collection> [file]",
	Short: "Upsert records into a collection",
	Long: `Upsert a JSON array of records from a file or stdin.

Each record carries "id", "values" and "metadata":

  [{"id":"1","values":[0.1,0.2,0.3],"metadata":{"text":"hello"}}]

Examples:
  bevec upsert documents records.json
  cat records.json | bevec upsert documents -`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUpsert,
}

var queryCmd = &cobra.Command{
	Use:   "query <collection>",
	Short: "Query nearest neighbors",
	Long: `Query a collection for the nearest neighbors of a vector and print the
results as JSON.

Examples:
  bevec query documents --vector 0.1,0.2,0.3 --top-k 5`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func runUpsert(cmd *cobra.Command, args []string) error {
	var reader io.Reader = cmd.InOrStdin()
	if len(args) == 2 && args[1] != "-" {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("opening records file: %w", err)
		}
		defer f.Close()
		reader = f
	}

	var records []vecstore.Record
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return fmt.Errorf("decoding records: %w", err)
	}

	provider, logger, err := openProvider()
	if err != nil {
		return err
	}
	defer provider.Close()
	defer logger.Sync() //nolint:errcheck

	client, err := provider.Collection(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := client.Upsert(cmd.Context(), records); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "upserted %d records into %s\n", len(records), args[0])
	return nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	vector, err := parseVector(queryVector)
	if err != nil {
		return err
	}

	provider, logger, err := openProvider()
	if err != nil {
		return err
	}
	defer provider.Close()
	defer logger.Sync() //nolint:errcheck

	client, err := provider.Collection(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	results, err := client.Query(cmd.Context(), vector, queryTopK)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// parseVector parses a comma-separated list of numbers.
func parseVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	vector := make([]float32, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", part, err)
		}
		vector = append(vector, float32(f))
	}
	return vector, nil
}
