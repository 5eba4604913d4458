//go:build unix

package scan

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHandBrake writes a shell script that prints fixture and exits with code.
func fakeHandBrake(t *testing.T, fixture string, code int) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	data := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(data, []byte(fixture), 0o644))
	script := filepath.Join(dir, "HandBrakeCLI")
	body := "#!/bin/sh\ncat '" + data + "' >&2\nexit " + strconv.Itoa(code) + "\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))
	return script
}

func TestScanner_Scan(t *testing.T) {
	bin := fakeHandBrake(t, readFixture(t, "show_s01e01.txt"), 0)
	res, err := NewScanner(bin).Scan(context.Background(), "/videos/show.s01e01.mkv")
	require.NoError(t, err)
	assert.Equal(t, "/videos/show.s01e01.mkv", res.SourcePath)
	assert.Len(t, res.AudioTracks, 2)
	assert.Len(t, res.SubtitleTracks, 1)
}

func TestScanner_NonZeroExitWithReportIsAccepted(t *testing.T) {
	bin := fakeHandBrake(t, readFixture(t, "show_s01e01.txt"), 3)
	res, err := NewScanner(bin).Scan(context.Background(), "x.mkv")
	require.NoError(t, err)
	assert.Len(t, res.AudioTracks, 2)
}

func TestScanner_FailureWrapsExitStatus(t *testing.T) {
	bin := fakeHandBrake(t, "No title found.\n", 2)
	_, err := NewScanner(bin).Scan(context.Background(), "x.mkv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTrackSections))
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.ExitCode())
}

func TestScanner_MissingBinary(t *testing.T) {
	_, err := NewScanner(filepath.Join(t.TempDir(), "nope")).Scan(context.Background(), "x.mkv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTrackSections))
}

func TestScanner_CancelledContext(t *testing.T) {
	bin := fakeHandBrake(t, readFixture(t, "show_s01e01.txt"), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewScanner(bin).Scan(ctx, "x.mkv")
	assert.ErrorIs(t, err, context.Canceled)
}
