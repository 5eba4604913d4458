//go:build !unix

package procgroup

import "os/exec"

func set(*exec.Cmd) {}

// Terminate kills the process; signals are not available on this platform.
func Terminate(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
