// Package check provides system diagnostics (the check command) and the
// pre-run dependency validation (CheckDeps) for HandBrakeCLI and the input
// and output directories.
package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/aniconvert/internal/config"
	"github.com/backmassage/aniconvert/internal/procgroup"
)

// Sentinel errors returned by CheckDeps.
var (
	ErrHandBrakeNotFound = errors.New("HandBrakeCLI not found")
	ErrHandBrakeUnusable = errors.New("HandBrakeCLI found but --version failed")
	ErrInputUnreadable   = errors.New("input directory is not readable")
	ErrOutputUnwritable  = errors.New("output directory is not writable")
)

// versionTimeout bounds the HandBrakeCLI --version probe.
const versionTimeout = 10 * time.Second

// Result is one diagnostic line of the check command.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunCheck reports HandBrakeCLI availability and version, and the access
// state of the configured directories when an input directory is set. It is
// informational only and never stops on failure.
func RunCheck(ctx context.Context, cfg *config.Config) []Result {
	results := []Result{checkHandBrake(ctx, cfg.Encoder.HandBrakePath)}
	if cfg.InputDir != "" {
		results = append(results, CheckDirectoryAccess("Input directory", cfg.InputDir, false))
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir, true))
	}
	return results
}

func checkHandBrake(ctx context.Context, binary string) Result {
	const name = "HandBrakeCLI"
	path, err := exec.LookPath(binary)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found", binary)}
	}
	version, err := Version(ctx, path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", version, path)}
}

// Version runs binary --version and returns the line naming the HandBrake
// release, e.g. "HandBrake 1.7.3".
func Version(ctx context.Context, binary string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, "--version")
	procgroup.Set(cmd, time.Second)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "HandBrake ") {
			return line, nil
		}
	}
	return "", errors.New("no version line in output")
}

// CheckDeps is the pre-run validation: HandBrakeCLI must resolve and answer
// --version, the input directory must be readable, and the output directory
// (or the nearest existing parent, when it does not exist yet) writable.
// Returns a sentinel error on failure.
func CheckDeps(ctx context.Context, cfg *config.Config) error {
	path, err := exec.LookPath(cfg.Encoder.HandBrakePath)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrHandBrakeNotFound, cfg.Encoder.HandBrakePath)
	}
	if _, err := Version(ctx, path); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrHandBrakeUnusable, err)
	}
	if r := CheckDirectoryAccess("input", cfg.InputDir, false); !r.Passed {
		return fmt.Errorf("%w: %s", ErrInputUnreadable, r.Detail)
	}
	if cfg.DryRun {
		return nil
	}
	if r := CheckDirectoryAccess("output", cfg.Paths.OutputDir, true); !r.Passed {
		return fmt.Errorf("%w: %s", ErrOutputUnwritable, r.Detail)
	}
	return nil
}

// CheckDirectoryAccess verifies that path is a directory with the needed
// permissions. With write set, a missing path is checked through its nearest
// existing parent, since the run creates it.
func CheckDirectoryAccess(name, path string, write bool) Result {
	target := path
	if write {
		target = existingAncestor(path)
	}
	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", target)}
	}
	if err := access(target, write); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", target, err)}
	}
	switch {
	case target != path:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created in %s)", path, target)}
	case write:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
	default:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
	}
}

// existingAncestor returns path or its nearest existing parent.
func existingAncestor(path string) string {
	p := filepath.Clean(path)
	for {
		if _, err := os.Stat(p); err == nil || !os.IsNotExist(err) {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}
