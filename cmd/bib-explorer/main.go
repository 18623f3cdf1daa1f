// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bib-explorer CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bib-explorer/internal/explore"
	"github.com/pdiddy/bib-explorer/internal/secrets"
	"github.com/pdiddy/bib-explorer/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the bib-explorer CLI.
var rootCmd = &cobra.Command{
	Use:   "bib-explorer",
	Short: "Explore Library of Congress bibliographic linked data",
	Long: `bib-explorer searches the Library of Congress id.loc.gov service for
contributors and titles, expands a contributor into their grouped works,
disambiguates a work against its siblings, and renders the full summary of
a work/instance pair. Contributor hits are enriched with Wikidata facts.

Each flow is a subcommand: search, contributor, work, and instance.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bib-explorer.yaml or ~/.config/bib-explorer/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bib-explorer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bib-explorer"))
		}
	}

	viper.SetEnvPrefix("BIB_EXPLORER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildConfig layers the config file and environment over the defaults and
// folds the operator contact into the User-Agent.
func buildConfig() types.Config {
	cfg := types.Defaults()

	if v := viper.GetString("search.user_agent"); v != "" {
		cfg.Search.UserAgent = v
	}
	if v := viper.GetDuration("search.timeout"); v > 0 {
		cfg.Search.Timeout = v
	}
	if v := viper.GetInt("search.name_count"); v > 0 {
		cfg.Search.NameCount = v
	}
	if v := viper.GetInt("search.work_count"); v > 0 {
		cfg.Search.WorkCount = v
	}
	if v := viper.GetFloat64("search.request_rate"); v > 0 {
		cfg.Search.RequestRate = v
	}
	if v := viper.GetInt("explore.contributor_page_cap"); v > 0 {
		cfg.Explore.ContributorPageCap = v
	}
	if v := viper.GetInt("explore.related_page_cap"); v > 0 {
		cfg.Explore.RelatedPageCap = v
	}
	if viper.IsSet("enrich.enabled") {
		cfg.Enrich.Enabled = viper.GetBool("enrich.enabled")
	}
	if v := viper.GetDuration("enrich.timeout"); v > 0 {
		cfg.Enrich.Timeout = v
	}

	if email, ok := loadedSecrets["contact-email"]; ok {
		contact := fmt.Sprintf(" (mailto:%s)", email)
		cfg.Search.UserAgent += contact
		cfg.Enrich.UserAgent = cfg.Search.UserAgent
	} else {
		cfg.Enrich.UserAgent = cfg.Search.UserAgent
	}
	return cfg
}

// newExplorer builds the shared explorer for one command invocation.
func newExplorer() *explore.Explorer {
	e := explore.New(buildConfig())
	e.Warnings = os.Stderr
	return e
}

// outputFlags registers the shared output format flags.
func outputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "output as JSON")
	cmd.Flags().Bool("yaml", false, "output as YAML")
}

// writeOutput renders v per the output flags, defaulting to the table
// renderer.
func writeOutput(cmd *cobra.Command, v any, table func()) error {
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return explore.FormatJSON(v, os.Stdout)
	}
	if yamlOut, _ := cmd.Flags().GetBool("yaml"); yamlOut {
		return explore.FormatYAML(v, os.Stdout)
	}
	table()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
