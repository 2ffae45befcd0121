//go:build unix

package harness

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the unit in its own process group so that runners
// spawning children (npx, node) are killed as a whole.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
