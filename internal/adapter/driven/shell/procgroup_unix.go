//go:build unix

package shell

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup starts the shell in its own process group and makes
// cancellation signal the whole group.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
