package handbrake

import (
	"github.com/backmassage/aniconvert/internal/planner"
	"github.com/backmassage/aniconvert/internal/scan"
)

// Validate checks the scanned encode output against want. Counts come from
// the libav stream table when the report has one, otherwise from
// HandBrake's own track lists.
func Validate(res *scan.ScanResult, want planner.Expectation) error {
	video, audio, subtitle := res.Counts()
	if video < want.MinVideo || audio != want.Audio || subtitle != want.Subtitle {
		return &TrackCountError{
			Expected: want,
			Video:    video,
			Audio:    audio,
			Subtitle: subtitle,
		}
	}
	return nil
}
