package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/planfinder/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <report.yaml>",
	Short: "Render a saved report without searching again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}

		f, err := report.ReadFile(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "query %q, saved %s\n",
			f.Report.Query, f.Summary.SavedAt.Format("2006-01-02 15:04"))
		report.WriteDiagnostics(f.Report.Diagnostics, cmd.ErrOrStderr())
		return report.Render(f.Report, format, cmd.OutOrStdout())
	},
}

func init() {
	showCmd.Flags().String("format", "table", "output format: table, json, or csv")

	rootCmd.AddCommand(showCmd)
}
