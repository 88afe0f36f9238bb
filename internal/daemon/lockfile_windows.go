//go:build windows

package daemon

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

var (
	modkernel32      = syscall.NewLazyDLL("kernel32.dll")
	procLockFileEx   = modkernel32.NewProc("LockFileEx")
	procUnlockFileEx = modkernel32.NewProc("UnlockFileEx")
)

const (
	lockfileFailImmediately = 0x00000001
	lockfileExclusiveLock   = 0x00000002
	errorLockViolation      = syscall.Errno(33)
)

func (l *LockFile) platformLock(f *os.File) error {
	var ol syscall.Overlapped
	r1, _, err := procLockFileEx.Call(
		uintptr(syscall.Handle(f.Fd())),
		uintptr(lockfileExclusiveLock|lockfileFailImmediately),
		0,
		1, 0,
		uintptr(unsafe.Pointer(&ol)),
	)
	if r1 != 0 {
		return nil
	}
	if err == errorLockViolation {
		return ErrLockHeld
	}
	return fmt.Errorf("failed to acquire lock: %w", err)
}

func (l *LockFile) platformUnlock(f *os.File) {
	var ol syscall.Overlapped
	procUnlockFileEx.Call(
		uintptr(syscall.Handle(f.Fd())),
		0,
		1, 0,
		uintptr(unsafe.Pointer(&ol)),
	)
}
