package handbrake

import (
	"fmt"
	"strings"

	"github.com/backmassage/aniconvert/internal/planner"
)

// ExitError reports an encode that could not be started or exited non-zero.
// Tail holds the last lines the tool printed.
type ExitError struct {
	Code int // -1 when the process did not run to completion
	Tail string
	Err  error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("HandBrakeCLI failed: %v", e.Err)
	if e.Code >= 0 {
		msg = fmt.Sprintf("HandBrakeCLI exited with status %d", e.Code)
	}
	if e.Tail != "" {
		msg += ":\n" + e.Tail
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// TrackCountError reports an encode whose output does not have the expected
// track layout. The usual cause is HandBrake built against a libav that
// misidentifies a codec (most often ASS subtitles), so a wrong track is
// selected or burned in.
type TrackCountError struct {
	Expected planner.Expectation
	Video    int
	Audio    int
	Subtitle int
}

func (e *TrackCountError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "track count mismatch: expected video>=%d audio=%d subtitle=%d, got video=%d audio=%d subtitle=%d",
		e.Expected.MinVideo, e.Expected.Audio, e.Expected.Subtitle,
		e.Video, e.Audio, e.Subtitle)
	b.WriteString("; HandBrake and its libav disagree about the source tracks" +
		" (known defect with some libav builds and ASS subtitles)." +
		" Rebuild HandBrake against a fixed libav or remux the source with ffmpeg first")
	return b.String()
}
