//go:build unix

package handbrake

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHandBrake writes a shell script standing in for HandBrakeCLI.
func fakeHandBrake(t *testing.T, body string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	script := filepath.Join(t.TempDir(), "HandBrakeCLI")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"+body), 0o755))
	return script
}

func TestEncoder_ProgressAndSuccess(t *testing.T) {
	bin := fakeHandBrake(t, `
printf 'Encoding: task 1 of 1, 10.00 %%\r'
printf 'Encoding: task 1 of 1, 55.50 %% (30.00 fps, avg 29.00 fps, ETA 00h01m00s)\r'
echo "[12:00:00] libhb: work result = 0" >&2
exit 0
`)
	var seen []Progress
	enc := NewEncoder(bin, zerolog.Nop())
	err := enc.Encode(context.Background(), testPlan(), "/tmp/out.mp4", func(p Progress) {
		seen = append(seen, p)
	})
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.InDelta(t, 55.5, seen[1].Percent, 1e-9)
	assert.True(t, seen[1].HasRate)
}

func TestEncoder_NonZeroExit(t *testing.T) {
	bin := fakeHandBrake(t, `
echo "ERROR: Invalid audio codec" >&2
echo "Encode failed (error 3)."
exit 3
`)
	err := NewEncoder(bin, zerolog.Nop()).Encode(context.Background(), testPlan(), "/tmp/out.mp4", nil)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, 3, exitErr.Code)
	assert.Contains(t, exitErr.Tail, "Invalid audio codec")
	assert.Contains(t, exitErr.Error(), "status 3")
}

func TestEncoder_MissingBinary(t *testing.T) {
	err := NewEncoder(filepath.Join(t.TempDir(), "absent"), zerolog.Nop()).
		Encode(context.Background(), testPlan(), "/tmp/out.mp4", nil)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, -1, exitErr.Code)
}

func TestEncoder_Cancel(t *testing.T) {
	bin := fakeHandBrake(t, "sleep 30\n")
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := NewEncoder(bin, zerolog.Nop()).Encode(ctx, testPlan(), "/tmp/out.mp4", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second, "cancel should stop the process group")
}
