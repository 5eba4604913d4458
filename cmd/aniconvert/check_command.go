package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/aniconvert/internal/check"
	"github.com/backmassage/aniconvert/internal/config"
	"github.com/backmassage/aniconvert/internal/display"
)

var errCheckFailed = errors.New("system check failed")

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "check [input_dir]",
		Short: "Report HandBrakeCLI availability and directory access",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output-dir") {
				cfg.Paths.OutputDir = outputDir
			}
			if len(args) == 1 {
				input, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}
				cfg.InputDir = input
				if err := cfg.Validate(); err != nil {
					return err
				}
			} else if err := cfg.ValidateSettings(); err != nil {
				return err
			}

			results := check.RunCheck(cmd.Context(), cfg)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "System check")
			fmt.Fprint(out, display.RenderCheck(results))
			for _, r := range results {
				if !r.Passed {
					return errCheckFailed
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory to check (default <input_dir>-converted)")
	return cmd
}
