package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/hyperpolymath/qed-ssg/internal/logger"
)

var log = logger.ForComponent("runner")

const (
	DefaultOutputLimit = 4 * 1024 * 1024
	waitDelay          = 2 * time.Second
)

// Command is one external process invocation. Args are passed to the binary
// verbatim as argv; nothing is ever handed to a shell.
type Command struct {
	Binary  string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

type Runner struct {
	lookPath    func(string) (string, error)
	outputLimit int

	mu       sync.Mutex
	detached map[int]*exec.Cmd
}

type Option func(*Runner)

func WithOutputLimit(limit int) Option {
	return func(r *Runner) {
		r.outputLimit = limit
	}
}

func WithLookPath(fn func(string) (string, error)) Option {
	return func(r *Runner) {
		r.lookPath = fn
	}
}

func New(opts ...Option) *Runner {
	r := &Runner{
		lookPath:    exec.LookPath,
		outputLimit: DefaultOutputLimit,
		detached:    make(map[int]*exec.Cmd),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// prepare validates c and builds the exec.Cmd bound to ctx.
func (r *Runner) prepare(ctx context.Context, c Command) (*exec.Cmd, *limitedBuffer, *limitedBuffer, *Result) {
	if c.Binary == "" {
		res := Invalid("binary name is empty")
		return nil, nil, nil, &res
	}
	for _, tok := range append([]string{c.Binary}, c.Args...) {
		if strings.ContainsRune(tok, 0) {
			res := Invalid("argument contains a NUL byte")
			return nil, nil, nil, &res
		}
	}

	path, err := r.lookPath(c.Binary)
	if err != nil {
		res := NotFound(c.Binary)
		return nil, nil, nil, &res
	}

	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		return killGroup(cmd)
	}
	cmd.WaitDelay = waitDelay

	stdout := newLimitedBuffer(r.outputLimit)
	stderr := newLimitedBuffer(r.outputLimit)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd, stdout, stderr, nil
}

// Run executes c to completion and folds every failure mode into the Result.
func (r *Runner) Run(ctx context.Context, c Command) Result {
	start := time.Now()

	runCtx, cancel := withTimeout(ctx, c.Timeout)
	defer cancel()

	cmd, stdout, stderr, early := r.prepare(runCtx, c)
	if early != nil {
		log.Debug("command rejected", "binary", c.Binary, "kind", early.Kind)
		return *early
	}

	err := cmd.Run()
	res := r.finish(runCtx, ctx, c, err, stdout, stderr)
	res.Duration = time.Since(start)

	log.Debug("command finished",
		"binary", c.Binary,
		"argc", len(c.Args),
		"code", res.Code,
		"duration_ms", res.Duration.Milliseconds())
	if !res.Success {
		log.Warn("command failed", "binary", c.Binary, "kind", res.Kind, "code", res.Code)
	}
	return res
}

func (r *Runner) finish(runCtx, parent context.Context, c Command, err error, stdout, stderr *limitedBuffer) Result {
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctxErr := runCtx.Err(); ctxErr != nil {
		res.Kind = KindTimeout
		if parent != nil && errors.Is(parent.Err(), context.Canceled) {
			res.Code = CodeCancelled
			res.Stderr = appendLine(res.Stderr, fmt.Sprintf("Cancelled: %s was terminated", c.Binary))
		} else {
			res.Code = CodeTimeout
			res.Stderr = appendLine(res.Stderr, fmt.Sprintf("Timeout: %s exceeded %s", c.Binary, c.Timeout))
		}
		return res
	}

	if err == nil {
		res.Success = true
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.Kind = KindExecutionFailed
		res.Code = exitErr.ExitCode()
		if res.Code <= 0 {
			res.Code = 1
		}
		return res
	}

	if errors.Is(err, exec.ErrWaitDelay) {
		// The process exited cleanly but a grandchild kept the pipes open.
		res.Success = true
		return res
	}

	// Start failed: missing working directory, permission denied, bad
	// executable format. These are reported the same way as a missing binary.
	res.Kind = KindBinaryNotFound
	res.Code = CodeBinaryNotFound
	res.Stderr = appendLine(res.Stderr, err.Error())
	return res
}

// Start launches a long-running command (a development server), waits for
// the start window and reports whether it came up. A process still running
// at the end of the window is left running and reaped in the background.
func (r *Runner) Start(ctx context.Context, c Command, window time.Duration) Result {
	start := time.Now()

	// Servers must outlive the call, so they are not bound to ctx.
	cmd, stdout, stderr, early := r.prepare(context.Background(), c)
	if early != nil {
		return *early
	}

	if err := cmd.Start(); err != nil {
		res := r.finish(context.Background(), ctx, c, err, stdout, stderr)
		res.Duration = time.Since(start)
		return res
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(window)
	defer timer.Stop()

	select {
	case err := <-done:
		res := r.finish(context.Background(), ctx, c, err, stdout, stderr)
		res.Duration = time.Since(start)
		return res

	case <-ctx.Done():
		killGroup(cmd)
		<-done
		res := Result{
			Stdout:   stdout.String(),
			Stderr:   appendLine(stderr.String(), fmt.Sprintf("Cancelled: %s was terminated", c.Binary)),
			Code:     CodeCancelled,
			Kind:     KindTimeout,
			Duration: time.Since(start),
		}
		return res

	case <-timer.C:
		pid := cmd.Process.Pid
		r.track(pid, cmd, done)
		log.Info("server started", "binary", c.Binary, "pid", pid)
		return Result{
			Success:  true,
			Stdout:   appendLine(fmt.Sprintf("started %s (pid %d)", c.Binary, pid), stdout.String()),
			Stderr:   stderr.String(),
			Code:     0,
			Duration: time.Since(start),
		}
	}
}

func (r *Runner) track(pid int, cmd *exec.Cmd, done <-chan error) {
	r.mu.Lock()
	r.detached[pid] = cmd
	r.mu.Unlock()

	go func() {
		err := <-done
		log.Info("server exited", "pid", pid, "error", err)
		r.mu.Lock()
		delete(r.detached, pid)
		r.mu.Unlock()
	}()
}

// Running returns the PIDs of servers started by this runner that are still alive.
func (r *Runner) Running() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	pids := make([]int, 0, len(r.detached))
	for pid := range r.detached {
		pids = append(pids, pid)
	}
	return pids
}

// Close kills every server this runner started. Called on host shutdown so
// no child outlives the process that spawned it.
func (r *Runner) Close() error {
	r.mu.Lock()
	cmds := make([]*exec.Cmd, 0, len(r.detached))
	for _, cmd := range r.detached {
		cmds = append(cmds, cmd)
	}
	r.mu.Unlock()

	var errs []error
	for _, cmd := range cmds {
		if err := killGroup(cmd); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func appendLine(s, line string) string {
	if s == "" {
		return line
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s + line
}
