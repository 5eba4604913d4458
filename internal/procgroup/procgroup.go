// Package procgroup starts external tools in their own process group so a
// cancelled conversion takes the whole tool process tree down with it.
package procgroup

import (
	"os/exec"
	"time"
)

// DefaultGrace is how long a cancelled tool gets between SIGTERM and SIGKILL.
const DefaultGrace = 5 * time.Second

// Set configures cmd to start in a new process group. For commands built
// with exec.CommandContext, cancelling the context signals the group with
// SIGTERM and os/exec kills the tool if it is still running after grace.
// Commands without a context only get the process group.
func Set(cmd *exec.Cmd, grace time.Duration) {
	set(cmd)
	if cmd.Cancel != nil {
		cmd.Cancel = func() error { return Terminate(cmd) }
		cmd.WaitDelay = grace
	}
}
