//go:build unix

package hooks

import (
	"os/exec"
	"syscall"
)

// killProcessGroup runs cmd in its own process group and kills the whole
// group when its context is done.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
