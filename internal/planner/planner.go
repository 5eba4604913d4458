package planner

import (
	"github.com/backmassage/aniconvert/internal/config"
	"github.com/backmassage/aniconvert/internal/scan"
)

// BuildPlan produces the FilePlan for one source file from its scan, the
// track selection, the destination chosen by the naming package, and the
// encoder settings in cfg.
//
// The expected layout follows from what HandBrake is asked to do: one video
// stream, the single chosen audio track (or none), and no subtitle stream
// because the chosen subtitle is burned into the picture.
func BuildPlan(cfg *config.Config, res *scan.ScanResult, sel Selection, dest string) *FilePlan {
	plan := &FilePlan{
		InputPath:  res.SourcePath,
		OutputPath: dest,
		Format:     cfg.Output.Format,
		Selection:  sel,
		Size:       cfg.OutputSize,
		BaseArgs:   cfg.Encoder.Args,
		Expect:     Expectation{MinVideo: 1},
	}
	if sel.Audio != nil {
		plan.Expect.Audio = 1
	}
	return plan
}
