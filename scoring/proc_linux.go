//go:build linux

package scoring

import (
	"os/exec"
	"syscall"
)

// setPlatformSpecificAttrs asks the kernel to kill the specialist when we exit.
func setPlatformSpecificAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Pdeathsig: syscall.SIGKILL,
	}
}
