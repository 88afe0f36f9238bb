// Package adapter implements the uniform contract every static site
// generator binding is exposed through: a connection state machine, an
// ordered set of tool descriptors, and argv-only process execution.
package adapter

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hyperpolymath/qed-ssg/internal/logger"
	"github.com/hyperpolymath/qed-ssg/internal/runner"
)

var log = logger.ForComponent("adapter")

type Result = runner.Result

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Executor runs external processes. *runner.Runner is the production
// implementation.
type Executor interface {
	Run(ctx context.Context, c runner.Command) runner.Result
	Start(ctx context.Context, c runner.Command, window time.Duration) runner.Result
}

type Timeouts struct {
	Connect     time.Duration
	Build       time.Duration
	Default     time.Duration
	ServeWindow time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Connect:     30 * time.Second,
		Build:       5 * time.Minute,
		Default:     2 * time.Minute,
		ServeWindow: 10 * time.Second,
	}
}

func (t Timeouts) For(op Op) time.Duration {
	switch op {
	case OpBuild:
		return t.Build
	case OpVersion:
		return t.Connect
	default:
		return t.Default
	}
}

// Binding is the per-toolchain configuration an Adapter is built from.
type Binding struct {
	Name        string
	Display     string
	Language    string
	Description string
	Binary      string
	// Probe is the argument vector of the version probe run by Connect and
	// by the version tool.
	Probe      []string
	Operations []Operation
}

// Adapter exposes one external toolchain through the uniform tool contract.
type Adapter struct {
	name        string
	language    string
	description string
	binary      string
	probe       []string

	exec     Executor
	timeouts func() Timeouts
	policy   *Policy

	status atomic.Pointer[Status]
	tools  []*Tool
	index  map[string]*Tool
}

type Option func(*Adapter)

// WithTimeouts supplies the timeouts on every invocation so configuration
// reloads take effect without rebuilding adapters.
func WithTimeouts(fn func() Timeouts) Option {
	return func(a *Adapter) {
		a.timeouts = fn
	}
}

func WithPolicy(p *Policy) Option {
	return func(a *Adapter) {
		a.policy = p
	}
}

func New(b Binding, exec Executor, opts ...Option) (*Adapter, error) {
	if !ValidName(b.Name) {
		return nil, fmt.Errorf("invalid adapter name %q", b.Name)
	}
	if b.Binary == "" {
		return nil, fmt.Errorf("adapter %s: binary is required", b.Name)
	}
	if strings.ContainsAny(b.Binary, `/\`) {
		return nil, fmt.Errorf("adapter %s: binary must be resolved from PATH, got %q", b.Name, b.Binary)
	}
	if exec == nil {
		return nil, fmt.Errorf("adapter %s: executor is required", b.Name)
	}

	a := &Adapter{
		name:        b.Name,
		language:    b.Language,
		description: b.Description,
		binary:      b.Binary,
		probe:       append([]string(nil), b.Probe...),
		exec:        exec,
		timeouts:    DefaultTimeouts,
		index:       make(map[string]*Tool),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.status.Store(disconnected)

	display := b.Display
	if display == "" {
		display = b.Name
	}

	ops := append([]Operation(nil), b.Operations...)
	ops = append(ops, Operation{
		Op:   OpVersion,
		Args: func(Input) Invocation { return Invocation{Args: a.probe} },
	})

	for _, op := range ops {
		if op.Args == nil {
			return nil, fmt.Errorf("adapter %s: operation %s has no argument builder", b.Name, op.Op)
		}
		t := a.newTool(display, op)
		if _, dup := a.index[t.name]; dup {
			return nil, fmt.Errorf("adapter %s: duplicate tool %s", b.Name, t.name)
		}
		a.tools = append(a.tools, t)
		a.index[t.name] = t
	}

	return a, nil
}

func (a *Adapter) newTool(display string, op Operation) *Tool {
	schema := DefaultSchema(op.Op)
	if op.Schema != nil {
		schema = *op.Schema
	}
	desc := op.Description
	if desc == "" {
		desc = defaultDescription(display, op.Op)
	}

	t := &Tool{
		name:        a.name + "_" + string(op.Op),
		description: desc,
		op:          op.Op,
		schema:      schema,
	}
	build := op.Args
	t.execute = func(ctx context.Context, in Input) Result {
		if err := a.policy.check(schema, in); err != nil {
			return runner.Invalid("%s: %v", t.name, err)
		}
		inv := build(in)
		cmd := runner.Command{
			Binary: a.binary,
			Args:   inv.Args,
			Dir:    inv.Dir,
			Env:    inv.Env,
		}
		timeouts := a.timeouts()
		if op.Op == OpServe {
			return a.exec.Start(ctx, cmd, timeouts.ServeWindow)
		}
		cmd.Timeout = timeouts.For(op.Op)
		return a.exec.Run(ctx, cmd)
	}
	return t
}

func (a *Adapter) Name() string        { return a.name }
func (a *Adapter) Language() string    { return a.language }
func (a *Adapter) Description() string { return a.description }
func (a *Adapter) Binary() string      { return a.binary }

// Tools returns the adapter's tools in publication order.
func (a *Adapter) Tools() []*Tool {
	return append([]*Tool(nil), a.tools...)
}

func (a *Adapter) Tool(name string) (*Tool, bool) {
	t, ok := a.index[name]
	return t, ok
}

// Connect probes for the toolchain binary. It returns true and caches the
// reported version when the probe succeeds; any failure leaves the adapter
// disconnected and returns false.
func (a *Adapter) Connect(ctx context.Context) bool {
	res := a.exec.Run(ctx, runner.Command{
		Binary:  a.binary,
		Args:    a.probe,
		Timeout: a.timeouts().Connect,
	})

	if !res.Success {
		log.Info("connect failed", "adapter", a.name, "kind", res.Kind, "code", res.Code)
		a.status.Store(&Status{
			State:     StateDisconnected,
			LastError: firstLine(res.Stderr),
			CheckedAt: time.Now(),
		})
		return false
	}

	version := ParseVersion(res.Stdout)
	if version == "" {
		version = ParseVersion(res.Stderr)
	}
	a.status.Store(&Status{
		State:     StateConnected,
		Version:   version,
		CheckedAt: time.Now(),
	})
	log.Debug("connected", "adapter", a.name, "version", version)
	return true
}

// Disconnect is unconditional and idempotent.
func (a *Adapter) Disconnect() {
	a.status.Store(disconnected)
}

func (a *Adapter) IsConnected() bool {
	return a.status.Load().State == StateConnected
}

func (a *Adapter) Status() Status {
	return *a.status.Load()
}

// Version is the version cached by the last successful Connect.
func (a *Adapter) Version() string {
	return a.status.Load().Version
}

// Info is the discovery view of an adapter.
type Info struct {
	Name        string   `json:"name"`
	Language    string   `json:"language"`
	Description string   `json:"description"`
	Binary      string   `json:"binary"`
	Tools       []string `json:"tools"`
	Connected   bool     `json:"connected"`
	Version     string   `json:"version,omitempty"`
}

func (a *Adapter) Info() Info {
	st := a.status.Load()
	names := make([]string, len(a.tools))
	for i, t := range a.tools {
		names[i] = t.name
	}
	return Info{
		Name:        a.name,
		Language:    a.language,
		Description: a.description,
		Binary:      a.binary,
		Tools:       names,
		Connected:   st.State == StateConnected,
		Version:     st.Version,
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
