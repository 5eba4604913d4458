package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/backmassage/aniconvert/internal/config"
)

// selectionFlags are shared by run and scan.
type selectionFlags struct {
	audio        []string
	subtitle     []string
	recursive    bool
	inputFormats []string
}

func (f *selectionFlags) bind(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&f.audio, "audio-languages", "a", nil, "Audio language priority, most preferred first (default jpn,eng)")
	fs.StringSliceVarP(&f.subtitle, "subtitle-languages", "s", nil, "Subtitle language priority, most preferred first (default eng)")
	fs.BoolVarP(&f.recursive, "recursive", "r", false, "Descend into sub-directories")
	fs.StringSliceVarP(&f.inputFormats, "input-formats", "i", nil, "Input file extensions (default mkv,mp4)")
}

func (f *selectionFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("audio-languages") {
		cfg.Languages.Audio = f.audio
	}
	if fs.Changed("subtitle-languages") {
		cfg.Languages.Subtitle = f.subtitle
	}
	if fs.Changed("recursive") {
		cfg.Paths.Recursive = f.recursive
	}
	if fs.Changed("input-formats") {
		cfg.Paths.InputFormats = f.inputFormats
	}
}

// runFlags are the conversion settings of the run command.
type runFlags struct {
	selectionFlags
	outputDir     string
	outputFormat  string
	collision     string
	dimensions    string
	handBrakePath string
	jobs          int
	dryRun        bool
}

func (f *runFlags) bind(fs *pflag.FlagSet) {
	f.selectionFlags.bind(fs)
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "Output directory (default <input_dir>-converted)")
	fs.StringVarP(&f.outputFormat, "output-format", "j", "", "Output container: mp4, mkv or m4v (default mp4)")
	fs.StringVarP(&f.collision, "collision", "w", "", "Existing output: fail, skip, overwrite or rename (default skip)")
	fs.StringVarP(&f.dimensions, "dimensions", "d", "", "Output size: auto, 1080p, 720p or WxH (default auto)")
	fs.StringVarP(&f.handBrakePath, "handbrake-path", "x", "", "HandBrakeCLI binary (default from PATH)")
	fs.IntVar(&f.jobs, "jobs", 0, "Files converted concurrently (default 1)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Scan and plan only; write nothing")
}

func (f *runFlags) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	f.selectionFlags.apply(fs, cfg)
	if fs.Changed("output-dir") {
		path, err := config.ExpandPath(f.outputDir)
		if err != nil {
			return err
		}
		cfg.Paths.OutputDir = path
	}
	if fs.Changed("output-format") {
		cfg.Output.Format = config.OutputFormat(f.outputFormat)
	}
	if fs.Changed("collision") {
		cfg.Output.Collision = config.CollisionPolicy(strings.ToLower(f.collision))
	}
	if fs.Changed("dimensions") {
		cfg.Output.Dimensions = f.dimensions
	}
	if fs.Changed("handbrake-path") {
		cfg.Encoder.HandBrakePath = f.handBrakePath
	}
	if fs.Changed("jobs") {
		cfg.Encoder.Jobs = f.jobs
	}
	cfg.DryRun = f.dryRun
	return nil
}
