// Package daemon runs the MCP handler as a long-lived process on a unix
// socket, one session per connection.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hyperpolymath/qed-ssg/internal/logger"
	"github.com/hyperpolymath/qed-ssg/internal/mcp"
)

var log = logger.ForComponent("daemon")

const shutdownGrace = 5 * time.Second

type Daemon struct {
	baseDir    string
	socketPath string
	handler    *mcp.Handler
	lifecycle  *Lifecycle

	listener net.Listener
	wg       sync.WaitGroup
	active   atomic.Int64
	ready    chan struct{}
}

func New(baseDir, socketPath string, handler *mcp.Handler) *Daemon {
	return &Daemon{
		baseDir:    baseDir,
		socketPath: socketPath,
		handler:    handler,
		lifecycle:  NewLifecycle(baseDir, socketPath),
		ready:      make(chan struct{}),
	}
}

// Ready is closed once the socket accepts connections.
func (d *Daemon) Ready() <-chan struct{} {
	return d.ready
}

// Connections reports the number of open client sessions.
func (d *Daemon) Connections() int64 {
	return d.active.Load()
}

// Run holds the instance lock and serves until ctx is cancelled, then
// closes every open session.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.lifecycle.Acquire(); err != nil {
		return err
	}
	defer d.lifecycle.Release()

	listener, err := Listen(d.socketPath)
	if err != nil {
		return err
	}
	d.listener = listener
	defer os.Remove(d.socketPath)

	log.Info("daemon listening", "socket", d.socketPath, "pid", os.Getpid())
	close(d.ready)

	sessionCtx, cancelSessions := context.WithCancel(context.Background())
	defer cancelSessions()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			log.Warn("accept failed", "error", err)
			continue
		}

		d.wg.Add(1)
		d.active.Add(1)
		go d.serve(sessionCtx, conn)
	}

	log.Info("daemon shutting down", "sessions", d.active.Load())
	cancelSessions()
	if !d.wait(shutdownGrace) {
		log.Warn("sessions still open after shutdown grace", "sessions", d.active.Load())
	}
	return nil
}

func (d *Daemon) serve(ctx context.Context, conn net.Conn) {
	defer d.wg.Done()
	defer d.active.Add(-1)

	log.Debug("session opened")
	if err := d.handler.Serve(ctx, conn); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("session ended with error", "error", err)
	}
	log.Debug("session closed")
}

func (d *Daemon) wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Status describes a daemon as seen from outside the process.
type Status struct {
	Running    bool   `json:"running"`
	PID        int    `json:"pid,omitempty"`
	SocketPath string `json:"socketPath"`
	Responsive bool   `json:"responsive"`
}

func Inspect(baseDir, socketPath string) (Status, error) {
	lm := NewLifecycle(baseDir, socketPath)
	pid, err := lm.PIDFile().Read()
	if err != nil {
		return Status{SocketPath: socketPath}, fmt.Errorf("failed to read PID file: %w", err)
	}
	return Status{
		Running:    pid != 0 && processExists(pid),
		PID:        pid,
		SocketPath: socketPath,
		Responsive: isSocketResponsive(socketPath),
	}, nil
}
