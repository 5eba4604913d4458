package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/backmassage/aniconvert/internal/config"
	"github.com/backmassage/aniconvert/internal/logging"
	"github.com/backmassage/aniconvert/internal/naming"
)

// LockFileName is created in the output directory for the duration of a run.
const LockFileName = ".aniconvert.lock"

// ErrOutputLocked is returned when another run holds the output directory.
var ErrOutputLocked = errors.New("another aniconvert run is writing to the output directory")

// Tools are the external collaborators of a run.
type Tools struct {
	Scanner  Scanner
	Encoder  Encoder
	Progress ProgressFunc // optional
}

// Report is the result of a batch run. Outcomes are in discovery order.
type Report struct {
	RunID      string
	InputRoot  string
	OutputRoot string
	DryRun     bool
	Outcomes   []Outcome
	Stats      RunStats
}

// Run is the top-level batch entry point. It discovers files, converts them
// with at most cfg.Encoder.Jobs in flight, and returns every file's outcome.
// A failed file never stops the batch; only setup errors (bad directories,
// a held lock) are returned as errors. Cancelling ctx stops running encodes
// and reports files not yet started as failed.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger, tools Tools) (*Report, error) {
	runID := uuid.NewString()
	log = log.With().Str(logging.FieldRunID, runID).Logger()

	inputAbs, outputAbs, err := resolveRoots(cfg)
	if err != nil {
		return nil, err
	}

	files, err := Discover(inputAbs, cfg.Paths.InputFormats, cfg.Paths.Recursive)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	log.Info().
		Int("files", len(files)).
		Str("input", inputAbs).
		Str("output", outputAbs).
		Bool("recursive", cfg.Paths.Recursive).
		Int("jobs", cfg.Encoder.Jobs).
		Bool("dry_run", cfg.DryRun).
		Msg("starting batch")

	if !cfg.DryRun {
		if err := os.MkdirAll(outputAbs, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
		lock := flock.New(filepath.Join(outputAbs, LockFileName))
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("lock output directory: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("%w (%s)", ErrOutputLocked, outputAbs)
		}
		defer func() {
			// Removed while still held so a waiting run never locks a stale inode.
			if err := os.Remove(lock.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
				log.Warn().Err(err).Msg("remove output lock file")
			}
			if err := lock.Unlock(); err != nil {
				log.Warn().Err(err).Msg("release output lock")
			}
		}()
	}

	job := &Job{
		Cfg:        cfg,
		InputRoot:  inputAbs,
		OutputRoot: outputAbs,
		Scanner:    tools.Scanner,
		Encoder:    tools.Encoder,
		Registry:   naming.NewRegistry(naming.FileExists),
		Log:        log.With().Str(logging.FieldComponent, "job").Logger(),
		Progress:   tools.Progress,
	}

	outcomes := make([]Outcome, len(files))
	var g errgroup.Group
	g.SetLimit(cfg.Encoder.Jobs)
	for i, path := range files {
		g.Go(func() error {
			log.Info().Msgf("[%d/%d] %s", i+1, len(files), displayName(inputAbs, path))
			outcomes[i] = job.Run(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{
		RunID:      runID,
		InputRoot:  inputAbs,
		OutputRoot: outputAbs,
		DryRun:     cfg.DryRun,
		Outcomes:   outcomes,
		Stats:      Summarize(outcomes),
	}
	logSummary(log, cfg, &report.Stats)
	if ctx.Err() != nil {
		log.Warn().Msg("interrupted")
	}
	return report, nil
}

// resolveRoots returns the absolute, symlink-resolved input and output
// directories and checks that they do not overlap.
func resolveRoots(cfg *config.Config) (string, string, error) {
	inputAbs, err := filepath.Abs(cfg.InputDir)
	if err != nil {
		return "", "", fmt.Errorf("resolve input directory: %w", err)
	}
	info, err := os.Stat(inputAbs)
	if err != nil {
		return "", "", fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("input path %s is not a directory", inputAbs)
	}
	if resolved, err := filepath.EvalSymlinks(inputAbs); err == nil {
		inputAbs = resolved
	}

	outputAbs, err := filepath.Abs(cfg.Paths.OutputDir)
	if err != nil {
		return "", "", fmt.Errorf("resolve output directory: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(outputAbs); err == nil {
		outputAbs = resolved
	} else if parent, err := filepath.EvalSymlinks(filepath.Dir(outputAbs)); err == nil {
		// The output directory is usually created by the run itself.
		outputAbs = filepath.Join(parent, filepath.Base(outputAbs))
	}

	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		return "", "", err
	}
	return inputAbs, outputAbs, nil
}

func logSummary(log zerolog.Logger, cfg *config.Config, stats *RunStats) {
	ev := log.Info()
	if stats.Failed > 0 {
		ev = log.Warn()
	}
	ev = ev.
		Int("total", stats.Total).
		Int("converted", stats.Converted).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed)
	if !cfg.DryRun {
		ev = ev.Int64("space_saved_bytes", stats.SpaceSaved())
	}
	ev.Msg("batch finished")
}
