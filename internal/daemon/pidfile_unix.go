//go:build unix

package daemon

import (
	"errors"
	"syscall"
)

// processExists sends signal 0, which checks for the process without
// delivering anything. EPERM means it exists under another user.
func processExists(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
