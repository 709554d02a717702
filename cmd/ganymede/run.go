package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/adaptermanager"
	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/inference"
	"mercator-hq/ganymede/pkg/security/apikeys"
	"mercator-hq/ganymede/pkg/security/auth"
	"mercator-hq/ganymede/pkg/server"
	"mercator-hq/ganymede/pkg/telemetry/logging"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
	"mercator-hq/ganymede/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	preload       bool
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Ganymede server",
	Long: `Start the chat server with the specified configuration.

Examples:
  # Start with default config
  ganymede run

  # Start with custom config
  ganymede run --config /etc/ganymede/config.yaml

  # Override listen address and preload every adapter first
  ganymede run --listen 0.0.0.0:8080 --preload

  # Validate config and print the startup summary without serving
  ganymede run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.preload, "preload", false, "preload all adapters before serving")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError(cfgFile, err)
	}

	logger, logCloser, err := logging.New(cfg.Telemetry.Logging)
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	config.LogSummary(cfg, logger)
	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	tp, err := tracing.Setup(ctx, cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	var (
		contexts inference.ContextProvider
		manager  *adaptermanager.Manager
		warmer   *adaptermanager.Warmer
	)
	if !cfg.General.InferenceOnly {
		manager, err = newManager(cfg, logger, collector)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer closeManager(manager, cfg.AdapterManager.ShutdownTimeout, logger)
		contexts = adaptermanager.NewProxy(manager)

		if cfg.AdapterManager.PreloadOnStartup || runFlags.preload {
			results := manager.PreloadAll(ctx, cfg.AdapterManager.PreloadTimeout)
			ok, total := preloadSummary(results)
			logger.Info("startup preload finished", "successful", ok, "total", total)
		}

		if schedule := cfg.AdapterManager.WarmSchedule; schedule != "" {
			warmer, err = adaptermanager.NewWarmer(manager, schedule, cfg.AdapterManager.PreloadTimeout)
			if err != nil {
				return cli.NewConfigError(cfgFile, err)
			}
			if err := warmer.Start(ctx); err != nil {
				return cli.NewCommandError("run", err)
			}
			defer warmer.Stop()
		}
	}

	chat := inference.NewService(inference.NewOpenAIClient(cfg.Inference), contexts, inference.ServiceConfig{
		SystemPrompt:   cfg.Inference.SystemPrompt,
		RefusalMessage: cfg.Inference.RefusalMessage,
		InferenceOnly:  cfg.General.InferenceOnly,
		Verbose:        cfg.General.Verbose,
		Logger:         logger,
	})

	keys, err := apikeys.NewStore(cfg.APIKeys, logger)
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}
	defer keys.Close()
	if cfg.APIKeys.Watch {
		if err := keys.Watch(ctx); err != nil {
			return cli.NewCommandError("run", err)
		}
	}

	deps := server.Dependencies{
		Chat:    chat,
		APIKeys: keys,
		Metrics: collector,
		Version: server.Version{Version: Version, Commit: GitCommit, BuildTime: BuildDate},
		Logger:  logger,
	}
	if manager != nil {
		deps.Adapters = manager
	}
	if warmer != nil {
		deps.Warmer = warmer
	}
	if cfg.Security.AdminAuth.Enabled {
		deps.AdminVerifier, err = auth.NewVerifier(cfg.Security.AdminAuth)
		if err != nil {
			return cli.NewConfigError(cfgFile, err)
		}
	}

	srv, err := server.NewServer(cfg, deps)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ganymede %s listening on %s\n", Version, cfg.Server.ListenAddress)
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Server stopped")
	return nil
}
