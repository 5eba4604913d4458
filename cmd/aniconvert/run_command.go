package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/aniconvert/internal/check"
	"github.com/backmassage/aniconvert/internal/config"
	"github.com/backmassage/aniconvert/internal/display"
	"github.com/backmassage/aniconvert/internal/handbrake"
	"github.com/backmassage/aniconvert/internal/logging"
	"github.com/backmassage/aniconvert/internal/pipeline"
	"github.com/backmassage/aniconvert/internal/scan"
	"github.com/backmassage/aniconvert/internal/term"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <input_dir>",
		Short: "Convert every matching file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd.Flags(), cfg); err != nil {
				return err
			}
			input, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			cfg.InputDir = input
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runBatch(cmd.Context(), cfg)
		},
	}
	flags.bind(cmd.Flags())
	return cmd
}

func runBatch(parent context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner(os.Stdout)

	// Cancel on SIGINT/SIGTERM; running encodes are stopped and their
	// partial output removed.
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := check.CheckDeps(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("preflight failed")
		return err
	}
	if cfg.DryRun {
		log.Warn().Msg("dry run: no files will be written")
	}

	tools := pipeline.Tools{
		Scanner: scan.NewScanner(cfg.Encoder.HandBrakePath),
		Encoder: handbrake.NewEncoder(cfg.Encoder.HandBrakePath, log.WithComponent("handbrake")),
	}
	if cfg.Encoder.Jobs == 1 && term.IsTerminal(os.Stdout) {
		tools.Progress = display.NewProgress(os.Stdout)
	}

	report, err := pipeline.Run(ctx, cfg, log.WithComponent("runner"), tools)
	if err != nil {
		log.Error().Err(err).Msg("batch not started")
		return err
	}

	if len(report.Outcomes) > 0 {
		fmt.Fprintln(os.Stdout, display.RenderSummary(report))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if report.Stats.Failed > 0 {
		return errFilesFailed
	}
	return nil
}
