package term

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/aniconvert/internal/config"
)

func TestResolve(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	assert.True(t, resolve(config.ColorAlways, f))
	assert.False(t, resolve(config.ColorNever, f))
	assert.False(t, resolve(config.ColorAuto, f), "regular file is not a terminal")
}

func TestIsTerminal_Nil(t *testing.T) {
	assert.False(t, IsTerminal(nil))
}

func TestConfigure(t *testing.T) {
	Configure(config.ColorAlways)
	assert.True(t, Enabled())
	Configure(config.ColorNever)
	assert.False(t, Enabled())
}
