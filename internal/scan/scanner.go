package scan

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/backmassage/aniconvert/internal/procgroup"
)

// Scanner runs HandBrakeCLI --scan and parses its report.
type Scanner struct {
	Binary string // HandBrakeCLI path or name on PATH
}

// NewScanner returns a Scanner using binary.
func NewScanner(binary string) *Scanner {
	return &Scanner{Binary: binary}
}

// Scan runs `HandBrakeCLI -i path --scan` with stdout and stderr combined.
// A non-zero exit is tolerated when the report still parses; HandBrake exits
// non-zero for some files it scanned completely. A cancelled context returns
// the context error.
func (s *Scanner) Scan(ctx context.Context, path string) (*ScanResult, error) {
	cmd := exec.CommandContext(ctx, s.Binary, "-i", path, "--scan")
	procgroup.Set(cmd, procgroup.DefaultGrace)

	out, runErr := cmd.CombinedOutput()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := Parse(string(out))
	if err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("scan %q: %w: %w", path, err, runErr)
		}
		return nil, fmt.Errorf("scan %q: %w", path, err)
	}
	res.SourcePath = path
	return res, nil
}
