package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/adaptermanager"
	"mercator-hq/ganymede/pkg/cli"
)

var adaptersFlags struct {
	format  string
	timeout time.Duration
}

var adaptersCmd = &cobra.Command{
	Use:   "adapters",
	Short: "Inspect configured adapters",
}

var adaptersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured adapters",
	RunE:  runAdaptersList,
}

var adaptersPreloadCmd = &cobra.Command{
	Use:   "preload",
	Short: "Construct every adapter and report the outcome",
	Long: `Build and initialize every configured adapter without starting the server,
then print one result per adapter. Exits non-zero if any adapter fails.

Examples:
  ganymede adapters preload --timeout 30s
  ganymede adapters preload --format json`,
	RunE: runAdaptersPreload,
}

func init() {
	rootCmd.AddCommand(adaptersCmd)
	adaptersCmd.AddCommand(adaptersListCmd, adaptersPreloadCmd)

	adaptersCmd.PersistentFlags().StringVar(&adaptersFlags.format, "format", "text", "output format: text, json")
	adaptersPreloadCmd.Flags().DurationVar(&adaptersFlags.timeout, "timeout", 0, "per-adapter timeout (default adapter_manager.preload_timeout)")
}

type adapterRow struct {
	Name           string `json:"name"`
	Implementation string `json:"implementation"`
	Datasource     string `json:"datasource"`
	Adapter        string `json:"adapter"`
}

func runAdaptersList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(adaptersFlags.format)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	records := make([]adapterRow, 0, len(cfg.Adapters))
	table := cli.Table{Headers: []string{"NAME", "IMPLEMENTATION", "DATASOURCE", "ADAPTER"}}
	for _, a := range cfg.Adapters {
		if a.Name == "" {
			continue
		}
		records = append(records, adapterRow{a.Name, a.Implementation, a.Datasource, a.Adapter})
		table.Rows = append(table.Rows, []string{a.Name, a.Implementation, a.Datasource, a.Adapter})
	}
	table.Records = records

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), table)
}

type preloadRow struct {
	Name       string  `json:"adapter_name"`
	Success    bool    `json:"success"`
	Message    string  `json:"message,omitempty"`
	Error      string  `json:"error,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

func runAdaptersPreload(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(adaptersFlags.format)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.General.InferenceOnly {
		return cli.NewCommandError("adapters preload", fmt.Errorf("adapters are disabled in inference-only mode"))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager, err := newManager(cfg, logger, nil)
	if err != nil {
		return cli.NewCommandError("adapters preload", err)
	}
	defer closeManager(manager, cfg.AdapterManager.ShutdownTimeout, logger)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	results := manager.PreloadAll(ctx, adaptersFlags.timeout)
	if err := writePreloadResults(cmd.OutOrStdout(), format, results); err != nil {
		return err
	}

	ok, total := preloadSummary(results)
	if ok < total {
		return cli.NewCommandError("adapters preload", fmt.Errorf("%d of %d adapters failed", total-ok, total))
	}
	return nil
}

func writePreloadResults(w io.Writer, format cli.OutputFormat, results map[string]adaptermanager.PreloadResult) error {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	records := make([]preloadRow, 0, len(names))
	table := cli.Table{Headers: []string{"NAME", "STATUS", "DURATION", "DETAIL"}}
	for _, name := range names {
		r := results[name]
		status, detail := "ok", r.Message
		if !r.Success {
			status, detail = "failed", r.Error
		}
		records = append(records, preloadRow{
			Name:       name,
			Success:    r.Success,
			Message:    r.Message,
			Error:      r.Error,
			DurationMS: float64(r.Duration.Microseconds()) / 1000,
		})
		table.Rows = append(table.Rows, []string{name, status, r.Duration.Round(time.Millisecond).String(), detail})
	}
	table.Records = records

	return cli.NewFormatter(format).FormatTo(w, table)
}
