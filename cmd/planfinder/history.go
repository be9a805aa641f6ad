// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/planfinder/internal/archive"
	"github.com/pdiddy/planfinder/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived runs or render one of them",
	Long: `History lists runs saved with "planfinder run --archive", newest first.
Pass --run with a run ID to render that run's records.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("archive", archive.DefaultPath, "SQLite archive to read")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 for all)")
	historyCmd.Flags().String("run", "", "render the records of this run ID")
	historyCmd.Flags().String("format", "table", "output format for --run: table, json, or csv")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("archive")
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetString("run")
	formatName, _ := cmd.Flags().GetString("format")
	if !cmd.Flags().Changed("archive") {
		if p := viper.GetString("archive.path"); p != "" {
			path = p
		}
	}

	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	store, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if runID != "" {
		rep, err := store.Report(ctx, runID)
		if err != nil {
			return err
		}
		return report.Render(rep, format, cmd.OutOrStdout())
	}

	runs, err := store.Runs(ctx, limit)
	if err != nil {
		return err
	}
	formatRuns(runs, cmd.OutOrStdout())
	return nil
}

func formatRuns(runs []archive.Run, w io.Writer) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No archived runs.")
		return
	}

	fmt.Fprintf(w, "%-20s  %-20s  %-8s  %-7s  %s\n", "Run", "Started", "Suffix", "Records", "Query")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range runs {
		fmt.Fprintf(w, "%-20s  %-20s  %-8s  %-7d  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.DomainSuffix, r.RecordCount, r.Query)
	}
}
