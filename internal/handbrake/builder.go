package handbrake

import (
	"strconv"

	"github.com/backmassage/aniconvert/internal/config"
	"github.com/backmassage/aniconvert/internal/planner"
)

// ContainerFormat maps an output format to HandBrake's --format value.
// m4v is an MP4 container with a different extension.
func ContainerFormat(f config.OutputFormat) string {
	if f == config.FormatMKV {
		return "av_mkv"
	}
	return "av_mp4"
}

// Build constructs the HandBrakeCLI argument slice (without the binary) that
// encodes plan.InputPath into output.
func Build(plan *planner.FilePlan, output string) []string {
	args := make([]string, 0, len(plan.BaseArgs)+16)

	// --- Fixed quality and codec arguments ---
	args = append(args, plan.BaseArgs...)

	// --- Input / output ---
	args = append(args,
		"-i", plan.InputPath,
		"-o", output,
		"--format", ContainerFormat(plan.Format),
	)

	// --- Tracks ---
	if a := plan.Selection.Audio; a != nil {
		args = append(args, "-a", strconv.Itoa(a.Index))
	} else {
		args = append(args, "-a", "none")
	}
	if s := plan.Selection.Subtitle; s != nil {
		args = append(args, "-s", strconv.Itoa(s.Index), "--subtitle-burned")
	}

	// --- Output size ---
	if !plan.Size.IsAuto() {
		args = append(args,
			"-w", strconv.Itoa(plan.Size.Width),
			"-l", strconv.Itoa(plan.Size.Height),
		)
	}
	return args
}
