package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cloudproxy/internal/logging"
	"cloudproxy/internal/staging"
)

func newStagingCommand(ctx *commandContext) *cobra.Command {
	stagingCmd := &cobra.Command{
		Use:   "staging",
		Short: "Inspect and clean the original and rebuilt stores",
	}

	stagingCmd.AddCommand(newStagingListCommand(ctx))
	stagingCmd.AddCommand(newStagingSweepCommand(ctx))

	return stagingCmd
}

func newStagingListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staging files left in the stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := staging.NewStore(cfg.Paths.OriginalStore, cfg.Paths.RebuiltStore, logging.NewNop())
			files, err := store.List()
			if err != nil {
				return fmt.Errorf("list staging files: %w", err)
			}

			if len(files) == 0 && !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), "No staging files found")
				return nil
			}
			return stagingReport(store, files).write(cmd, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newStagingSweepCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove staging files left behind by interrupted cycles",
		Long: `Remove staging files left behind by interrupted cycles.

Every cycle clears its own files, so anything older than the cut-off belongs
to a process that was killed before cleanup. Only files named by a correlation
id are considered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			store := staging.NewStore(cfg.Paths.OriginalStore, cfg.Paths.RebuiltStore, logger)
			result := store.CleanStale(cmd.Context(), olderThan)
			return printSweepResult(cmd, result)
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", time.Hour, "Minimum age of files to remove")
	return cmd
}

func printSweepResult(cmd *cobra.Command, result staging.CleanStaleResult) error {
	out := cmd.OutOrStdout()
	if len(result.Removed) == 0 && len(result.Errors) == 0 {
		fmt.Fprintln(out, "No stale staging files to remove")
		return nil
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "Removed %d stale files, %d errors\n", len(result.Removed), len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  Error: %s: %v\n", e.Path, e.Error)
		}
		return nil
	}
	fmt.Fprintf(out, "Removed %d stale files\n", len(result.Removed))
	return nil
}

func storeLabel(store *staging.Store, root string) string {
	switch root {
	case store.OriginalRoot:
		return "original"
	case store.RebuiltRoot:
		return "rebuilt"
	default:
		return root
	}
}
