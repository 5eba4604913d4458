//go:build linux

package procgroup

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestSet_CancelKillsGroup(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, "sh", "-c", "sleep 30 & sleep 30")
	Set(cmd, time.Second)
	require.NoError(t, cmd.Start())

	pgid, err := unix.Getpgid(cmd.Process.Pid)
	require.NoError(t, err)
	assert.Equal(t, cmd.Process.Pid, pgid, "command should lead its own group")

	time.Sleep(100 * time.Millisecond)
	cancel()
	require.Error(t, cmd.Wait())

	require.Eventually(t, func() bool {
		return unix.Kill(-pgid, 0) == unix.ESRCH
	}, 2*time.Second, 20*time.Millisecond, "process group should be gone")
}

func TestKill_FinishedProcess(t *testing.T) {
	cmd := exec.Command("true")
	Set(cmd, time.Second)
	assert.Nil(t, cmd.Cancel, "no context, nothing to cancel")
	require.NoError(t, cmd.Run())
	assert.NoError(t, Kill(cmd, unix.SIGTERM))
}

func TestSet_WithoutContextStartsInOwnGroup(t *testing.T) {
	cmd := exec.Command("sleep", "5")
	Set(cmd, time.Second)
	require.NoError(t, cmd.Start())
	defer func() {
		_ = Kill(cmd, unix.SIGKILL)
		_ = cmd.Wait()
	}()

	pgid, err := unix.Getpgid(cmd.Process.Pid)
	require.NoError(t, err)
	assert.Equal(t, cmd.Process.Pid, pgid)
}

func TestKill_NotStarted(t *testing.T) {
	assert.NoError(t, Kill(nil, unix.SIGTERM))
	assert.NoError(t, Kill(exec.Command("true"), unix.SIGTERM))
}
