// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the threatwatch CLI.
// Searches news providers for recent cyber-threat coverage in one of six
// categories and exports the results as CSV, JSON, YAML, or a table.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/threatwatch/internal/logging"
	"github.com/pdiddy/threatwatch/internal/secrets"
	"github.com/pdiddy/threatwatch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Populated once by the root PersistentPreRunE and read-only afterwards.
var (
	loadedSecrets map[string]string
	cfg           types.Config
	logger        *log.Logger
)

// rootCmd is the base command for the threatwatch CLI.
var rootCmd = &cobra.Command{
	Use:   "threatwatch",
	Short: "Search the news for recent cyber-threat activity",
	Long: `threatwatch searches a news provider for recent articles about cyber threats
in one of six categories (APT campaigns, data breaches, influence operations,
malware, ransomware, social engineering), narrowed by a sector keyword.

Articles older than the recency window (90 days by default) are dropped;
articles without a usable date are kept and listed last. Results can be
exported as CSV or rendered as JSON, YAML, or a table.

The provider is either the feed aggregator (no key needed) or the REST
search API, whose key is read from .secrets/newsapi-api-key or
THREATWATCH_REST_API_KEY.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s

		c, err := buildConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		cfg = c

		l, err := logging.New(os.Stderr, cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = l

		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./threatwatch.yaml or ~/.config/threatwatch/threatwatch.yaml)")
	pf.String("source", "", "news provider: feed or rest (default feed)")
	pf.String("log-level", "", "log level: debug, info, warn, error (default info)")

	_ = viper.BindPFlag("search.source", pf.Lookup("source"))
	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("threatwatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "threatwatch"))
		}
	}

	// A missing config file is fine; defaults and env cover everything.
	_ = viper.ReadInConfig()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
