package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cloudproxy/internal/config"
	"cloudproxy/internal/journal"
	"cloudproxy/internal/outcome"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var id string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently finished cycles from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return withJournal(cfg, func(store *journal.Store) error {
				var entries []journal.Entry
				if strings.TrimSpace(id) != "" {
					entries, err = store.ByCorrelationID(cmd.Context(), id)
				} else {
					entries, err = store.Recent(cmd.Context(), limit)
				}
				if err != nil {
					return err
				}
				if len(entries) == 0 && !asJSON {
					fmt.Fprintln(cmd.OutOrStdout(), "No cycles recorded")
					return nil
				}
				return historyReport(entries).write(cmd, asJSON)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of cycles to show")
	cmd.Flags().StringVar(&id, "id", "", "Show only cycles with this correlation id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	cmd.AddCommand(newHistoryStatsCommand(ctx))
	return cmd
}

func newHistoryStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count journal entries per outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return withJournal(cfg, func(store *journal.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				return statsReport(stats).write(cmd, asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func withJournal(cfg *config.Config, fn func(*journal.Store) error) error {
	if !cfg.Journal.Enabled {
		return fmt.Errorf("cycle journal is disabled (journal.enabled = false)")
	}
	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

var titleCaser = cases.Title(language.English)

func outcomeLabel(o outcome.Outcome) string {
	return titleCaser.String(strings.ReplaceAll(o.String(), "_", " "))
}
