package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"

	"github.com/backmassage/aniconvert/internal/config"
	"github.com/backmassage/aniconvert/internal/handbrake"
	"github.com/backmassage/aniconvert/internal/logging"
	"github.com/backmassage/aniconvert/internal/naming"
	"github.com/backmassage/aniconvert/internal/planner"
	"github.com/backmassage/aniconvert/internal/scan"
)

// State is a step in the life of one file conversion.
type State string

const (
	StateScanning   State = "scanning"
	StateSelecting  State = "selecting"
	StateResolving  State = "resolving_destination"
	StateEncoding   State = "encoding"
	StateValidating State = "validating"
	StateDone       State = "done"
	StateSkipped    State = "skipped"
	StateFailed     State = "failed"
)

// Status is the final result of one file.
type Status int

const (
	StatusConverted Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusConverted:
		return "converted"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Outcome is the result of converting one source file. Err is set only for
// StatusFailed; Detail carries the skip reason or a human summary.
type Outcome struct {
	SourcePath      string
	DestinationPath string
	Status          Status
	Err             error
	Detail          string
	Duration        time.Duration
	InputBytes      int64
	OutputBytes     int64
}

// Scanner produces the track inventory of a file.
type Scanner interface {
	Scan(ctx context.Context, path string) (*scan.ScanResult, error)
}

// Encoder runs one encode of plan into output.
type Encoder interface {
	Encode(ctx context.Context, plan *planner.FilePlan, output string, progress func(handbrake.Progress)) error
}

// ProgressFunc is called when an encode starts and returns the callback
// for its status lines and a function to call when it ends. Either may be
// nil.
type ProgressFunc func(name string) (update func(handbrake.Progress), done func())

// Job converts single files. One Job is shared by all workers of a run; it
// holds no per-file state.
type Job struct {
	Cfg        *config.Config
	InputRoot  string
	OutputRoot string
	Scanner    Scanner
	Encoder    Encoder
	Registry   *naming.Registry
	Log        zerolog.Logger
	Progress   ProgressFunc
}

// Run drives source through scanning, selection, destination resolution,
// encoding and validation. It never panics on file errors and always
// returns exactly one Outcome.
func (j *Job) Run(ctx context.Context, source string) Outcome {
	start := time.Now()
	name := displayName(j.InputRoot, source)
	log := j.Log.With().Str(logging.FieldFile, name).Logger()
	out := Outcome{SourcePath: source}

	finish := func(state State, status Status, err error, detail string) Outcome {
		j.transition(log, state)
		out.Status = status
		out.Err = err
		out.Detail = detail
		if err != nil && detail == "" {
			out.Detail = err.Error()
		}
		out.Duration = time.Since(start)
		return out
	}
	fail := func(op, path string, err error) Outcome {
		err = classify(op, path, err)
		log.Error().Err(err).Msg("conversion failed")
		return finish(StateFailed, StatusFailed, err, "")
	}

	if err := ctx.Err(); err != nil {
		return finish(StateFailed, StatusFailed, err, "not started: "+err.Error())
	}

	info, err := os.Stat(source)
	if err != nil {
		return fail("stat", source, err)
	}
	out.InputBytes = info.Size()

	// --- Scanning ---
	j.transition(log, StateScanning)
	res, err := j.Scanner.Scan(ctx, source)
	if err != nil {
		return fail("scan", source, err)
	}
	if res.LayoutMismatch() {
		log.Warn().
			Int("libav_audio", res.StreamCount(scan.KindAudio)).
			Int("handbrake_audio", len(res.AudioTracks)).
			Int("libav_subtitle", res.StreamCount(scan.KindSubtitle)).
			Int("handbrake_subtitle", len(res.SubtitleTracks)).
			Msg("libav and HandBrake report different track counts; track titles unavailable and the encode may pick the wrong track")
	}

	// --- Selecting ---
	j.transition(log, StateSelecting)
	sel, err := planner.SelectChecked(res, j.Cfg.Languages.Audio, j.Cfg.Languages.Subtitle)
	if err != nil {
		return fail("select", source, err)
	}
	logSelection(log, sel)

	// --- Resolving destination ---
	j.transition(log, StateResolving)
	dest, err := naming.OutputPath(j.InputRoot, j.OutputRoot, source, string(j.Cfg.Output.Format))
	if err != nil {
		return fail("resolve", source, err)
	}
	dec, err := j.Registry.Resolve(source, dest, j.Cfg.Output.Collision)
	if err != nil {
		return fail("resolve", dest, err)
	}
	out.DestinationPath = dec.Path
	switch dec.Action {
	case naming.ActionSkip:
		log.Info().Str(logging.FieldOutput, dec.Path).Str("reason", dec.Reason).Msg("skipping")
		return finish(StateSkipped, StatusSkipped, nil, dec.Reason)
	case naming.ActionFail:
		return fail("resolve", dec.Path, fmt.Errorf("%w (%s)", naming.ErrDestinationExists, dec.Reason))
	case naming.ActionRename:
		log.Info().Str(logging.FieldOutput, dec.Path).Msg("destination exists, writing renamed output")
	}

	plan := planner.BuildPlan(j.Cfg, res, sel, dec.Path)

	if j.Cfg.DryRun {
		log.Info().
			Str(logging.FieldOutput, dec.Path).
			Strs("args", handbrake.Build(plan, dec.Path)).
			Msg("dry run, not encoding")
		return finish(StateSkipped, StatusSkipped, nil, "dry run")
	}

	// --- Encoding ---
	j.transition(log, StateEncoding)
	if err := os.MkdirAll(filepath.Dir(dec.Path), 0o755); err != nil {
		return fail("write", dec.Path, err)
	}
	pending, err := renameio.NewPendingFile(dec.Path, renameio.WithPermissions(0o644))
	if err != nil {
		return fail("write", dec.Path, err)
	}
	defer pending.Cleanup()

	log.Info().Str(logging.FieldOutput, dec.Path).Msg("encoding")
	var update func(handbrake.Progress)
	var done func()
	if j.Progress != nil {
		update, done = j.Progress(name)
	}
	err = j.Encoder.Encode(ctx, plan, pending.Name(), update)
	if done != nil {
		done()
	}
	if err != nil {
		return fail("encode", source, err)
	}

	// --- Validating ---
	j.transition(log, StateValidating)
	encoded, err := j.Scanner.Scan(ctx, pending.Name())
	if err != nil {
		return fail("validate", dec.Path, err)
	}
	if err := handbrake.Validate(encoded, plan.Expect); err != nil {
		return fail("validate", dec.Path, err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fail("write", dec.Path, err)
	}
	if st, err := os.Stat(dec.Path); err == nil {
		out.OutputBytes = st.Size()
	}

	log.Info().
		Str(logging.FieldOutput, dec.Path).
		Dur("elapsed", time.Since(start)).
		Int64("input_bytes", out.InputBytes).
		Int64("output_bytes", out.OutputBytes).
		Msg("converted")
	return finish(StateDone, StatusConverted, nil, dec.Reason)
}

func (j *Job) transition(log zerolog.Logger, s State) {
	log.Debug().Str(logging.FieldState, string(s)).Msg("state")
}

func logSelection(log zerolog.Logger, sel planner.Selection) {
	ev := log.Info()
	if sel.Audio != nil {
		ev = ev.Int("audio", sel.Audio.Index).Str("audio_lang", sel.Audio.Language)
	} else {
		ev = ev.Str("audio", "none")
	}
	ev = ev.Str("audio_reason", string(sel.AudioReason))
	if sel.Subtitle != nil {
		ev = ev.Int("subtitle", sel.Subtitle.Index).Str("subtitle_lang", sel.Subtitle.Language)
	} else {
		ev = ev.Str("subtitle", "none")
	}
	ev.Str("subtitle_reason", string(sel.SubtitleReason)).Msg("selected tracks")
}

// displayName is source relative to root, or source itself when it is not
// below root.
func displayName(root, source string) string {
	if rel, err := filepath.Rel(root, source); err == nil {
		return rel
	}
	return source
}
