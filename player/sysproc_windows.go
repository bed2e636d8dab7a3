//go:build windows

package player

import (
	"os/exec"
	"syscall"
)

// detached hides the console window that would otherwise open next to the player.
func detached() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{HideWindow: true}
}

func terminate(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
