package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/backmassage/aniconvert/internal/config"
	"github.com/backmassage/aniconvert/internal/logging"
	"github.com/backmassage/aniconvert/internal/planner"
	"github.com/backmassage/aniconvert/internal/scan"
)

// Analysis is the scan and selection result for one file. Result is nil and
// Err set when the scan failed.
type Analysis struct {
	SourcePath string
	Result     *scan.ScanResult
	Selection  planner.Selection
	Err        error
}

// Analyze scans path, or every matching file below it when path is a
// directory, and applies the configured language priorities. Nothing is
// encoded or written. A cancelled ctx stops before the next file; the
// analyses gathered so far are returned together with the context error.
func Analyze(ctx context.Context, cfg *config.Config, scanner Scanner, path string, log zerolog.Logger) ([]Analysis, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	files := []string{path}
	root := filepath.Dir(path)
	if info.IsDir() {
		root = path
		files, err = Discover(path, cfg.Paths.InputFormats, cfg.Paths.Recursive)
		if err != nil {
			return nil, err
		}
	}
	log.Debug().Int("files", len(files)).Str("path", path).Msg("analyzing")

	out := make([]Analysis, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		a := Analysis{SourcePath: file}
		res, err := scanner.Scan(ctx, file)
		if err != nil {
			a.Err = classify("scan", file, err)
			log.Warn().Err(a.Err).Str(logging.FieldFile, displayName(root, file)).Msg("scan failed")
			out = append(out, a)
			continue
		}
		a.Result = res
		a.Selection = planner.Select(res, cfg.Languages.Audio, cfg.Languages.Subtitle)
		if res.LayoutMismatch() {
			log.Warn().Str(logging.FieldFile, displayName(root, file)).
				Msg("libav and HandBrake report different track counts")
		}
		out = append(out, a)
	}
	return out, nil
}
