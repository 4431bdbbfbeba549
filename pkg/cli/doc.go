/*
Package cli provides helpers shared by the parley commands.

Errors:

Commands return *ConfigError for configuration that cannot be loaded or
validated and *MissingKeysError when required settings are absent. ExitCode
maps them to exit status 2; every other error exits with 1.

Output Formatting:

	format, err := cli.ParseOutputFormat(outputFlag)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, report)

Signal Handling:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
	// ctx is cancelled on SIGINT or SIGTERM
*/
package cli
