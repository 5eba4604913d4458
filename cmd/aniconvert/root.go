package main

import (
	"errors"

	"github.com/spf13/cobra"
)

// errFilesFailed makes the process exit non-zero after a batch in which at
// least one file failed. The summary table already names them.
var errFilesFailed = errors.New("one or more files failed")

func newRootCommand() *cobra.Command {
	var globals globalFlags
	ctx := newCommandContext(&globals)

	rootCmd := &cobra.Command{
		Use:           "aniconvert",
		Short:         "Batch-convert video files with HandBrakeCLI",
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&globals.config, "config", "c", "", "Configuration file path (default ~/.config/aniconvert/config.toml)")
	pf.StringVarP(&globals.logLevel, "log-level", "l", "", "Log level: debug, info, warn or error")
	pf.StringVar(&globals.logFile, "log-file", "", "Also append JSON log lines to this file")
	pf.StringVar(&globals.color, "color", "", "Color output: auto, always or never")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newScanCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
