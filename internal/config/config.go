// Package config holds runtime configuration: defaults, the optional TOML
// file, and validation. CLI flags are layered on top by cmd/aniconvert before
// Validate is called.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// --- Enum types for validated string fields ---

// CollisionPolicy decides what happens when a destination file already exists.
type CollisionPolicy string

const (
	CollisionFail      CollisionPolicy = "fail"      // Report the file as failed.
	CollisionSkip      CollisionPolicy = "skip"      // Leave the existing file alone (default).
	CollisionOverwrite CollisionPolicy = "overwrite" // Replace the existing file.
	CollisionRename    CollisionPolicy = "rename"    // Write next to it with a " - dupN" suffix.
)

// OutputFormat is the output container, also used as the file extension.
type OutputFormat string

const (
	FormatMP4 OutputFormat = "mp4" // Default.
	FormatMKV OutputFormat = "mkv"
	FormatM4V OutputFormat = "m4v"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Paths groups input discovery and output location settings.
type Paths struct {
	OutputDir    string   `toml:"output_dir"`    // Default: "<input_dir>-converted".
	Recursive    bool     `toml:"recursive"`     // Descend into sub-directories.
	InputFormats []string `toml:"input_formats"` // Extensions without the dot. Default: mkv, mp4.
}

// Output groups container and destination handling.
type Output struct {
	Format     OutputFormat    `toml:"format"`
	Collision  CollisionPolicy `toml:"collision"`
	Dimensions string          `toml:"dimensions"` // "auto", "1080p", "720p" or "WxH".
}

// Languages holds the track selection priorities, most preferred first.
type Languages struct {
	Audio    []string `toml:"audio"`
	Subtitle []string `toml:"subtitle"`
}

// Encoder holds HandBrakeCLI settings.
type Encoder struct {
	HandBrakePath string   `toml:"handbrake_path"` // Empty: resolve HandBrakeCLI from PATH.
	Args          []string `toml:"args"`           // Fixed quality/codec arguments.
	Jobs          int      `toml:"jobs"`           // Concurrent conversions. Default: 1.
}

// Logging holds log output settings.
type Logging struct {
	Level string    `toml:"level"`
	File  string    `toml:"file"`
	Color ColorMode `toml:"color"`
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [Load], then by CLI flags, and finally checked by
// [Config.Validate] before being passed (by pointer) to the pipeline.
type Config struct {
	// InputDir is set from the positional argument; never read from the file.
	InputDir string `toml:"-"`
	DryRun   bool   `toml:"-"`

	Paths     Paths     `toml:"paths"`
	Output    Output    `toml:"output"`
	Languages Languages `toml:"languages"`
	Encoder   Encoder   `toml:"encoder"`
	Logging   Logging   `toml:"logging"`

	// OutputSize is derived from Output.Dimensions by Validate. Zero means auto.
	OutputSize Dimensions `toml:"-"`
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigFile)
}

// Load overlays the TOML file at path (or the default location when path is
// empty) onto [DefaultConfig]. A missing file is not an error; the returned
// bool reports whether one was read. Validation is left to the caller so that
// CLI flags can be applied first.
func Load(path string) (*Config, string, bool, error) {
	cfg := DefaultConfig()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if !exists {
		return &cfg, resolved, false, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, "", false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	return &cfg, resolved, true, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
	} else {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		path = expanded
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", path)
	}
	return path, true, nil
}

// WriteSample writes the commented sample configuration to path. An existing
// file is never replaced.
func WriteSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	if _, err := f.WriteString(sampleConfig); err != nil {
		f.Close()
		return fmt.Errorf("write sample config: %w", err)
	}
	return f.Close()
}

// ExpandPath resolves a leading "~" and returns a cleaned absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return abs, nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}
