/*
Package cli provides helpers shared by the ganymede commands.

Output Formatting:

Command results are printed as aligned text tables or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, table); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

Errors:

ConfigError and CommandError map to distinct process exit codes via ExitCode.
*/
package cli
