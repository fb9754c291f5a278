//go:build !windows

// Package process terminates the browser process trees started for capture.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking
// Chrome's renderer and GPU children down with it.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Errors ignored: the launcher kills the leader as a fallback.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
