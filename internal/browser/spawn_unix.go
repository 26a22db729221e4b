//go:build !windows

package browser

import (
	"os/exec"
	"syscall"
)

// detach puts the command in a new process group.
func detach(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}
