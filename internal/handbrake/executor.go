package handbrake

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/backmassage/aniconvert/internal/planner"
	"github.com/backmassage/aniconvert/internal/procgroup"
)

// tailLines is how many trailing output lines an ExitError keeps.
const tailLines = 20

// Encoder runs HandBrakeCLI encodes.
type Encoder struct {
	Binary string
	Log    zerolog.Logger
}

// NewEncoder returns an Encoder using binary.
func NewEncoder(binary string, log zerolog.Logger) *Encoder {
	return &Encoder{Binary: binary, Log: log}
}

// Encode runs HandBrakeCLI for plan, writing to output. progress, when
// non-nil, is called from the calling goroutine for every status line.
// A cancelled context stops the whole tool process group and returns the
// context error.
func (e *Encoder) Encode(ctx context.Context, plan *planner.FilePlan, output string, progress func(Progress)) error {
	args := Build(plan, output)
	e.Log.Debug().Str("binary", e.Binary).Strs("args", args).Msg("starting encode")

	cmd := exec.CommandContext(ctx, e.Binary, args...)
	procgroup.Set(cmd, procgroup.DefaultGrace)

	pr, pw, err := os.Pipe()
	if err != nil {
		return &ExitError{Code: -1, Err: err}
	}
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &ExitError{Code: -1, Err: err}
	}
	pw.Close()

	tail := newTail(tailLines)
	sc := bufio.NewScanner(pr)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(scanLines)
	for sc.Scan() {
		line := sc.Text()
		if p, ok := ParseProgress(line); ok {
			if progress != nil {
				progress(p)
			}
			continue
		}
		if strings.TrimSpace(line) != "" {
			tail.add(line)
		}
	}
	if err := sc.Err(); err != nil {
		// Keep the pipe drained so the tool never blocks on a full buffer.
		e.Log.Debug().Err(err).Msg("stop reading encoder output")
		_, _ = io.Copy(io.Discard, pr)
	}
	pr.Close()

	waitErr := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if waitErr != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &ExitError{Code: code, Tail: tail.String(), Err: waitErr}
	}
	return nil
}

// tail keeps the last n lines written to it.
type tail struct {
	lines []string
	n     int
}

func newTail(n int) *tail { return &tail{n: n} }

func (t *tail) add(line string) {
	if len(t.lines) == t.n {
		copy(t.lines, t.lines[1:])
		t.lines = t.lines[:t.n-1]
	}
	t.lines = append(t.lines, line)
}

func (t *tail) String() string { return strings.Join(t.lines, "\n") }
