package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ganymede",
	Short: "Ganymede - retrieval-augmented chat server",
	Long: `Ganymede answers chat requests with an OpenAI-compatible model, grounding
each answer in documents retrieved from the adapter bound to the caller's
API key.

Adapters (relational keyword search or vector similarity over SQLite) are
built on first use, cached, and can be preloaded or evicted at runtime.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a code derived from the
// returned error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
}

// loadConfig reads the --config file with GANYMEDE_* overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err)
	}
	return cfg, nil
}
