//go:build !windows

package player

import (
	"os/exec"
	"syscall"
)

// detached puts the player in its own process group so a terminal interrupt
// reaches marquee first and the player is shut down through IPC.
func detached() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// terminate kills the player together with any helper processes it spawned.
func terminate(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	return cmd.Process.Kill()
}
