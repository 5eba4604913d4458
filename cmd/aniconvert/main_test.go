//go:build unix

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scanReport = `Input #0, matroska,webm, from 'show.s01e01.mkv':
    Stream #0:0: Video: h264 (High), yuv420p, 1920x1080
    Stream #0:1(jpn): Audio: aac (LC), 48000 Hz, stereo, fltp (default)
    Stream #0:2(eng): Audio: aac (LC), 48000 Hz, stereo, fltp
    Stream #0:3(eng): Subtitle: ass (default)
+ title 1:
  + duration: 00:23:40
  + size: 1920x1080, pixel aspect: 1/1, display aspect: 1.78, 23.976 fps
  + audio tracks:
    + 1, Japanese (AAC) (2.0 ch) (iso639-2: jpn), 48000Hz, 128000bps
    + 2, English (AAC) (2.0 ch) (iso639-2: eng), 48000Hz, 128000bps
  + subtitle tracks:
    + 1, English (iso639-2: eng) (Text)(SSA)
HandBrake has exited.
`

type cliEnv struct {
	config    string // absent config file, so the user's own is never read
	handBrake string
	input     string
}

func setupCLITestEnv(t *testing.T) cliEnv {
	t.Helper()
	root := t.TempDir()

	report := filepath.Join(root, "scan.txt")
	require.NoError(t, os.WriteFile(report, []byte(scanReport), 0o644))
	stub := filepath.Join(root, "HandBrakeCLI")
	script := "#!/bin/sh\n" +
		"case \"$*\" in\n" +
		"  *--version*) echo 'HandBrake 1.7.3'; exit 0 ;;\n" +
		"  *--scan*) cat '" + report + "' >&2; exit 0 ;;\n" +
		"esac\n" +
		"exit 1\n"
	require.NoError(t, os.WriteFile(stub, []byte(script), 0o755))

	input := filepath.Join(root, "anime")
	require.NoError(t, os.MkdirAll(input, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(input, "show.s01e01.mkv"), []byte("video"), 0o644))

	return cliEnv{
		config:    filepath.Join(root, "config.toml"),
		handBrake: stub,
		input:     input,
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "aniconvert", "config.toml")

	out, err := runCLI(t, "config", "init", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration")
	_, err = os.Stat(target)
	require.NoError(t, err)

	_, err = runCLI(t, "config", "init", target)
	assert.Error(t, err, "an existing config must not be replaced")

	out, err = runCLI(t, "-c", target, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}

func TestConfigValidate_RejectsBadFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(target, []byte("[output]\ncollision = \"merge\"\n"), 0o644))

	_, err := runCLI(t, "-c", target, "config", "validate")
	assert.ErrorContains(t, err, "collision")
}

func TestRun_RequiresInputDir(t *testing.T) {
	_, err := runCLI(t, "run")
	assert.Error(t, err)
}

func TestRun_DryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	output := filepath.Join(t.TempDir(), "converted")

	_, err := runCLI(t,
		"-c", env.config, "--color", "never", "-l", "warn",
		"run", env.input, "-x", env.handBrake, "-o", output, "--dry-run")
	require.NoError(t, err)

	_, err = os.Stat(output)
	assert.True(t, os.IsNotExist(err), "dry run must not create the output directory")
}

func TestRun_InvalidFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := runCLI(t, "-c", env.config, "run", env.input, "-w", "merge")
	assert.ErrorContains(t, err, "collision")
}

func TestRun_MissingHandBrake(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := runCLI(t,
		"-c", env.config, "--color", "never", "-l", "error",
		"run", env.input, "-x", filepath.Join(t.TempDir(), "absent"), "--dry-run")
	assert.ErrorContains(t, err, "HandBrakeCLI not found")
}

func TestScan_File(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t,
		"-c", env.config, "--color", "never", "-l", "warn",
		"scan", filepath.Join(env.input, "show.s01e01.mkv"), "-x", env.handBrake, "-a", "eng")
	require.NoError(t, err)
	assert.Contains(t, out, "show.s01e01.mkv")
	assert.Contains(t, out, "jpn (Japanese)")
	assert.Contains(t, out, "✓ priority")
}

func writeConfig(t *testing.T, handBrake string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[encoder]\nhandbrake_path = '"+handBrake+"'\n"), 0o644))
	return path
}

func TestCheck(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, "-c", writeConfig(t, env.handBrake), "--color", "never", "check", env.input)
	require.NoError(t, err)
	assert.Contains(t, out, "HandBrake 1.7.3")
	assert.Contains(t, out, "Input directory")

	absent := filepath.Join(t.TempDir(), "HandBrakeCLI")
	out, err = runCLI(t, "-c", writeConfig(t, absent), "--color", "never", "check")
	assert.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "not found")
	assert.NotContains(t, out, "Input directory")
}
