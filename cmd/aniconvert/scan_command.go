package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/aniconvert/internal/config"
	"github.com/backmassage/aniconvert/internal/display"
	"github.com/backmassage/aniconvert/internal/logging"
	"github.com/backmassage/aniconvert/internal/pipeline"
	"github.com/backmassage/aniconvert/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags selectionFlags
	var handBrakePath string

	cmd := &cobra.Command{
		Use:   "scan <file|dir>",
		Short: "Print the parsed track table and the tracks that would be selected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig(cmd)
			if err != nil {
				return err
			}
			flags.apply(cmd.Flags(), cfg)
			if cmd.Flags().Changed("handbrake-path") {
				cfg.Encoder.HandBrakePath = handBrakePath
			}
			if err := cfg.ValidateSettings(); err != nil {
				return err
			}
			target, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			log, err := logging.New(cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			scanner := scan.NewScanner(cfg.Encoder.HandBrakePath)
			analyses, err := pipeline.Analyze(sigCtx, cfg, scanner, target, log.WithComponent("scan"))
			root := target
			if info, statErr := os.Stat(target); statErr == nil && !info.IsDir() {
				root = filepath.Dir(target)
			}
			out := cmd.OutOrStdout()
			for _, a := range analyses {
				fmt.Fprintln(out, display.RenderAnalysis(a, root))
			}
			if err != nil {
				return err
			}
			if len(analyses) == 0 {
				log.Warn().Str("path", target).Msg("no matching files found")
			}
			for _, a := range analyses {
				if a.Err != nil {
					return errFilesFailed
				}
			}
			return nil
		},
	}
	flags.bind(cmd.Flags())
	cmd.Flags().StringVarP(&handBrakePath, "handbrake-path", "x", "", "HandBrakeCLI binary (default from PATH)")
	return cmd
}
