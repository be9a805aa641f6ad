// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/planfinder/internal/archive"
	"github.com/pdiddy/planfinder/internal/finder"
	"github.com/pdiddy/planfinder/internal/report"
	"github.com/pdiddy/planfinder/internal/search"
	"github.com/pdiddy/planfinder/internal/secrets"
	"github.com/pdiddy/planfinder/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search for strategic plans and estimate enrollment",
	Long: `Run issues one search for "strategic plan" restricted to the domain suffix,
keeps results whose host ends with the suffix, pulls the year range out of
each snippet, and runs one enrollment search per kept result.

Search API failures are reported as errors on stderr but do not abort the
run; missing credentials do.`,
	RunE: runFind,
}

func init() {
	runCmd.Flags().String("suffix", "", "domain suffix results must end with (default .edu)")
	runCmd.Flags().String("query", "", `primary search term (default "strategic plan")`)
	runCmd.Flags().String("format", "table", "output format: table, json, or csv")
	runCmd.Flags().String("save", "", "also save the report to this YAML file")
	runCmd.Flags().String("archive", "", "append the run to this SQLite archive")

	viper.BindPFlag("finder.domain_suffix", runCmd.Flags().Lookup("suffix"))
	viper.BindPFlag("finder.query", runCmd.Flags().Lookup("query"))
	viper.BindPFlag("archive.path", runCmd.Flags().Lookup("archive"))

	rootCmd.AddCommand(runCmd)
}

// runOptions carries everything a run needs so it can be driven from tests.
type runOptions struct {
	Search  types.SearchConfig
	Finder  types.FinderConfig
	Archive types.ArchiveConfig
	Format  report.Format
	SaveTo  string
	Client  *http.Client
}

func runFind(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	saveTo, _ := cmd.Flags().GetString("save")

	src, err := credentialSources(secretsDir, envFile)
	if err != nil {
		return err
	}
	creds, err := src.Require(secrets.APIKey, secrets.EngineID)
	if err != nil {
		return err
	}

	opts := runOptions{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			Endpoint: viper.GetString("search.endpoint"),
			APIKey:   creds[secrets.APIKey],
			EngineID: creds[secrets.EngineID],
		},
		Finder: types.FinderConfig{
			DomainSuffix: viper.GetString("finder.domain_suffix"),
			Query:        viper.GetString("finder.query"),
		},
		Archive: types.ArchiveConfig{Path: viper.GetString("archive.path")},
		Format:  format,
		SaveTo:  saveTo,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return executeRun(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// executeRun performs one finder run, prints diagnostics to errw and the
// report to w, then saves or archives it when asked.
func executeRun(ctx context.Context, opts runOptions, w, errw io.Writer) error {
	client, err := search.New(opts.Search, opts.Client)
	if err != nil {
		return err
	}

	rep := finder.New(client, opts.Finder).Run(ctx)

	report.WriteDiagnostics(rep.Diagnostics, errw)
	if err := report.Render(rep, opts.Format, w); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	if opts.SaveTo != "" {
		if err := report.WriteFile(opts.SaveTo, rep); err != nil {
			return err
		}
		fmt.Fprintf(errw, "saved report to %s\n", opts.SaveTo)
	}

	if opts.Archive.Path != "" {
		store, err := archive.Open(opts.Archive.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Save(ctx, rep)
		if err != nil {
			return err
		}
		fmt.Fprintf(errw, "archived run %s in %s\n", id, opts.Archive.Path)
	}
	return nil
}
