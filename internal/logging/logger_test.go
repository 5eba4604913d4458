package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/aniconvert/internal/config"
)

func TestNew_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Color = config.ColorNever
	var buf bytes.Buffer
	l, err := NewWithWriter(&cfg, &buf)
	require.NoError(t, err)
	defer l.Close()

	l.Info().Msg("test message")
	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), "INF")
}

func TestNew_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Logging.File = filepath.Join(dir, "logs", "aniconvert.log")
	var console bytes.Buffer
	l, err := NewWithWriter(&cfg, &console)
	require.NoError(t, err)

	cl := l.WithComponent("pipeline")
	cl.Info().Str(FieldFile, "a.mkv").Msg("to file")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "second close is a no-op")

	b, err := os.ReadFile(cfg.Logging.File)
	require.NoError(t, err)
	line := strings.TrimSpace(string(b))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry), "file sink writes JSON lines: %s", line)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "to file", entry["message"])
	assert.Equal(t, "pipeline", entry[FieldComponent])
	assert.Equal(t, "a.mkv", entry[FieldFile])
}

func TestNew_LevelFilters(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = "warn"
	var buf bytes.Buffer
	l, err := NewWithWriter(&cfg, &buf)
	require.NoError(t, err)

	l.Info().Msg("hidden")
	l.Debug().Msg("hidden too")
	l.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error().Msg("discarded")
	assert.NoError(t, l.Close())
}
