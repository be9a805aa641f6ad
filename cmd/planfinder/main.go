// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the planfinder CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/planfinder/internal/finder"
	"github.com/pdiddy/planfinder/internal/logger"
	"github.com/pdiddy/planfinder/internal/search"
	"github.com/pdiddy/planfinder/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	secretsDir       = ".secrets/"
	envFile          = ".env"
	defaultUserAgent = "planfinder/0.1"
)

// rootCmd is the base command for the planfinder CLI.
var rootCmd = &cobra.Command{
	Use:   "planfinder",
	Short: "Find strategic plans and enrollment figures on institution websites",
	Long: `planfinder searches a Google Programmable Search Engine for "strategic plan"
pages on sites under a domain suffix (default .edu), extracts the year range
each plan covers, and runs a follow-up search per site to estimate enrollment.

Credentials are read from GOOGLE_API_KEY and GOOGLE_CSE_ID in the environment,
a .env file, or the files .secrets/google-api-key and .secrets/google-cse-id.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.SetVerbose(verbose || viper.GetBool("verbose"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./planfinder.yaml or ~/.config/planfinder/planfinder.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	viper.SetDefault("search.endpoint", search.DefaultEndpoint)
	viper.SetDefault("search.timeout", "30s")
	viper.SetDefault("search.user_agent", defaultUserAgent)
	viper.SetDefault("finder.domain_suffix", finder.DefaultDomainSuffix)
	viper.SetDefault("finder.query", finder.DefaultQuery)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("planfinder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "planfinder"))
		}
	}

	viper.SetEnvPrefix("PLANFINDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// credentialSources gathers the places API credentials can come from.
func credentialSources(dir, dotenv string) (secrets.Sources, error) {
	files, err := secrets.Load(dir)
	if err != nil {
		return secrets.Sources{}, err
	}
	env, err := secrets.LoadEnvFile(dotenv)
	if err != nil {
		return secrets.Sources{}, err
	}
	return secrets.Sources{DotEnv: env, Files: files}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
