package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/XSpoonAi/spoon-BeVec/pkg/vecstore"
)

var (
	createDimension int
	createMetric    string
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Manage collections",
}

func init() {
	collectionsCmd.AddCommand(collectionsListCmd)
	collectionsCmd.AddCommand(collectionsCreateCmd)
	collectionsCmd.AddCommand(collectionsDeleteCmd)

	collectionsCreateCmd.Flags().IntVar(&createDimension, "dimension", 0, "embedding dimension (required)")
	collectionsCreateCmd.Flags().StringVar(&createMetric, "metric", "cosine", "distance metric: cosine, euclidean, dotproduct")
	_ = collectionsCreateCmd.MarkFlagRequired("dimension")
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, logger, err := openProvider()
		if err != nil {
			return err
		}
		defer provider.Close()
		defer logger.Sync() //nolint:errcheck

		names, err := provider.ListCollections(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var collectionsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, logger, err := openProvider()
		if err != nil {
			return err
		}
		defer provider.Close()
		defer logger.Sync() //nolint:errcheck

		if err := provider.CreateCollection(cmd.Context(), args[0], createDimension, vecstore.Metric(createMetric)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created collection %s\n", args[0])
		return nil
	},
}

var collectionsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, logger, err := openProvider()
		if err != nil {
			return err
		}
		defer provider.Close()
		defer logger.Sync() //nolint:errcheck

		if err := provider.DeleteCollection(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted collection %s\n", args[0])
		return nil
	},
}
