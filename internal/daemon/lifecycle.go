package daemon

import (
	"fmt"
	"os"
	"path/filepath"
)

// Lifecycle guards a daemon instance with a lock file and advertises it
// with a PID file.
type Lifecycle struct {
	lockFile   *LockFile
	pidFile    *PIDFile
	socketPath string
}

func NewLifecycle(baseDir, socketPath string) *Lifecycle {
	return &Lifecycle{
		lockFile:   NewLockFile(filepath.Join(baseDir, "daemon.lock")),
		pidFile:    NewPIDFile(filepath.Join(baseDir, "daemon.pid")),
		socketPath: socketPath,
	}
}

// Acquire takes the instance lock, clears a socket left behind by a crashed
// daemon and writes the PID file.
func (lm *Lifecycle) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(lm.lockFile.Path()), 0700); err != nil {
		return err
	}
	if err := lm.lockFile.Acquire(); err != nil {
		return fmt.Errorf("failed to acquire instance lock: %w", err)
	}

	if !isSocketResponsive(lm.socketPath) {
		os.Remove(lm.socketPath)
	}

	if err := lm.pidFile.Write(); err != nil {
		lm.lockFile.Release()
		return err
	}
	return nil
}

func (lm *Lifecycle) Release() {
	lm.pidFile.Remove()
	lm.lockFile.Release()
}

func (lm *Lifecycle) PIDFile() *PIDFile {
	return lm.pidFile
}
