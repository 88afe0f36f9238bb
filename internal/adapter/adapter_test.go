package adapter

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hyperpolymath/qed-ssg/internal/runner"
)

type fakeExec struct {
	mu      sync.Mutex
	result  runner.Result
	runs    []runner.Command
	starts  []runner.Command
	windows []time.Duration
}

func (f *fakeExec) Run(ctx context.Context, c runner.Command) runner.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, c)
	return f.result
}

func (f *fakeExec) Start(ctx context.Context, c runner.Command, window time.Duration) runner.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, c)
	f.windows = append(f.windows, window)
	return f.result
}

func (f *fakeExec) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs) + len(f.starts)
}

func testBinding() Binding {
	return Binding{
		Name:        "demo",
		Display:     "Demo",
		Language:    "go",
		Description: "Demo generator",
		Binary:      "demo-ssg",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: OpInit, Args: func(in Input) Invocation {
				return Invocation{Args: []string{"init", in.String("path")}}
			}},
			{Op: OpBuild, Args: func(in Input) Invocation {
				args := []string{"build", "--source", in.String("path")}
				if out := in.String("output"); out != "" {
					args = append(args, "--output", out)
				}
				if in.Bool("drafts") {
					args = append(args, "--drafts")
				}
				return Invocation{Args: args}
			}},
			{Op: OpServe, Args: func(in Input) Invocation {
				return Invocation{Args: []string{"serve"}, Dir: in.String("path")}
			}},
			{Op: OpClean, Args: func(in Input) Invocation {
				return Invocation{Args: []string{"clean"}, Dir: in.String("path")}
			}},
		},
	}
}

func newTestAdapter(t *testing.T, exec Executor, opts ...Option) *Adapter {
	t.Helper()
	a, err := New(testBinding(), exec, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return a
}

func TestNewAdapterStartsDisconnected(t *testing.T) {
	a := newTestAdapter(t, &fakeExec{})

	if a.IsConnected() {
		t.Error("adapter should start disconnected")
	}
	if a.Status().State != StateDisconnected {
		t.Errorf("expected state %s, got %s", StateDisconnected, a.Status().State)
	}
	if a.Version() != "" {
		t.Errorf("expected no version, got %q", a.Version())
	}
}

func TestToolsArePrefixedAndOrdered(t *testing.T) {
	a := newTestAdapter(t, &fakeExec{})
	tools := a.Tools()

	want := []string{"demo_init", "demo_build", "demo_serve", "demo_clean", "demo_version"}
	if len(tools) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(tools))
	}
	for i, name := range want {
		if tools[i].Name() != name {
			t.Errorf("tool %d: expected %s, got %s", i, name, tools[i].Name())
		}
		if !strings.HasPrefix(tools[i].Name(), a.Name()+"_") {
			t.Errorf("tool %s is not prefixed by the adapter name", tools[i].Name())
		}
		if tools[i].Description() == "" {
			t.Errorf("tool %s has no description", tools[i].Name())
		}
		if tools[i].InputSchema().Type != "object" {
			t.Errorf("tool %s schema is not an object", tools[i].Name())
		}
	}

	tools[0] = nil
	if a.Tools()[0] == nil {
		t.Error("Tools must return a copy")
	}

	if _, ok := a.Tool("demo_build"); !ok {
		t.Error("expected demo_build lookup to succeed")
	}
	if _, ok := a.Tool("build"); ok {
		t.Error("lookup must be exact")
	}
}

func TestConnectCachesVersion(t *testing.T) {
	exec := &fakeExec{result: runner.Result{Success: true, Stdout: "demo-ssg 0.19\n"}}
	a := newTestAdapter(t, exec)

	for i := 0; i < 3; i++ {
		if !a.Connect(context.Background()) {
			t.Fatal("expected connect to succeed")
		}
	}
	if !a.IsConnected() {
		t.Error("expected connected")
	}
	if a.Version() != "0.19.0" {
		t.Errorf("expected version 0.19.0, got %q", a.Version())
	}

	probe := exec.runs[0]
	if probe.Binary != "demo-ssg" || len(probe.Args) != 1 || probe.Args[0] != "--version" {
		t.Errorf("unexpected probe command: %+v", probe)
	}
	if probe.Timeout != DefaultTimeouts().Connect {
		t.Errorf("expected connect timeout, got %v", probe.Timeout)
	}
}

func TestConnectFailureStaysDisconnected(t *testing.T) {
	exec := &fakeExec{result: runner.NotFound("demo-ssg")}
	a := newTestAdapter(t, exec)

	if a.Connect(context.Background()) {
		t.Fatal("expected connect to fail")
	}
	if a.IsConnected() {
		t.Error("expected disconnected")
	}
	if !strings.Contains(a.Status().LastError, "Command not found") {
		t.Errorf("unexpected last error: %q", a.Status().LastError)
	}
}

func TestConnectFailureAfterSuccessDisconnects(t *testing.T) {
	exec := &fakeExec{result: runner.Result{Success: true, Stdout: "1.0.0"}}
	a := newTestAdapter(t, exec)
	a.Connect(context.Background())

	exec.result = runner.Result{Success: false, Code: 1, Kind: runner.KindExecutionFailed}
	if a.Connect(context.Background()) {
		t.Fatal("expected connect to fail")
	}
	if a.IsConnected() {
		t.Error("failed connect must leave the adapter disconnected")
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	exec := &fakeExec{result: runner.Result{Success: true, Stdout: "1.2.3"}}
	a := newTestAdapter(t, exec)

	a.Disconnect()
	if a.IsConnected() {
		t.Error("expected disconnected")
	}

	a.Connect(context.Background())
	a.Disconnect()
	first := a.Status()
	a.Disconnect()
	second := a.Status()

	if a.IsConnected() {
		t.Error("expected disconnected")
	}
	if first != second {
		t.Errorf("disconnect is not idempotent: %+v vs %+v", first, second)
	}
	if a.Version() != "" {
		t.Error("disconnect should clear the cached version")
	}
}

func TestExecuteRejectsInvalidInputBeforeSpawn(t *testing.T) {
	exec := &fakeExec{result: runner.Result{Success: true}}
	a := newTestAdapter(t, exec)
	build, _ := a.Tool("demo_build")

	cases := []struct {
		name string
		in   Input
	}{
		{"missing path", Input{}},
		{"wrong type", Input{"path": 42.0}},
		{"unknown field", Input{"path": "/tmp/site", "bogus": true}},
		{"bad drafts", Input{"path": "/tmp/site", "drafts": "yes"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := build.Execute(context.Background(), tc.in)
			if res.Success {
				t.Fatal("expected failure")
			}
			if res.Kind != runner.KindInvalidInput {
				t.Errorf("expected kind %s, got %s", runner.KindInvalidInput, res.Kind)
			}
			if res.Code != runner.CodeInvalidInput {
				t.Errorf("expected code %d, got %d", runner.CodeInvalidInput, res.Code)
			}
		})
	}

	if exec.calls() != 0 {
		t.Errorf("expected no process spawns, got %d", exec.calls())
	}
}

func TestExecuteBuildsArgumentVector(t *testing.T) {
	want := runner.Result{Success: true, Stdout: "done", Code: 0}
	exec := &fakeExec{result: want}
	a := newTestAdapter(t, exec)
	build, _ := a.Tool("demo_build")

	res := build.Execute(context.Background(), Input{
		"path":   "/tmp/my site; rm -rf /",
		"output": "/tmp/out",
		"drafts": true,
	})
	if res != want {
		t.Errorf("result was not returned unchanged: %+v", res)
	}

	cmd := exec.runs[0]
	wantArgs := []string{"build", "--source", "/tmp/my site; rm -rf /", "--output", "/tmp/out", "--drafts"}
	if strings.Join(cmd.Args, "|") != strings.Join(wantArgs, "|") {
		t.Errorf("unexpected args: %q", cmd.Args)
	}
	if cmd.Timeout != DefaultTimeouts().Build {
		t.Errorf("expected build timeout, got %v", cmd.Timeout)
	}
}

func TestExecuteRunsWhileDisconnected(t *testing.T) {
	exec := &fakeExec{result: runner.Result{Success: true}}
	a := newTestAdapter(t, exec)
	clean, _ := a.Tool("demo_clean")

	if a.IsConnected() {
		t.Fatal("precondition: adapter should be disconnected")
	}
	res := clean.Execute(context.Background(), Input{"path": "/tmp/site"})
	if !res.Success {
		t.Errorf("expected success, got %+v", res)
	}
	if exec.runs[0].Dir != "/tmp/site" {
		t.Errorf("expected working directory /tmp/site, got %q", exec.runs[0].Dir)
	}
}

func TestServeUsesStartWindow(t *testing.T) {
	exec := &fakeExec{result: runner.Result{Success: true}}
	timeouts := DefaultTimeouts()
	timeouts.ServeWindow = 3 * time.Second
	a := newTestAdapter(t, exec, WithTimeouts(func() Timeouts { return timeouts }))
	serve, _ := a.Tool("demo_serve")

	serve.Execute(context.Background(), Input{"path": "/tmp/site", "port": 1313.0})
	if len(exec.starts) != 1 {
		t.Fatalf("expected serve to use Start, got %d starts", len(exec.starts))
	}
	if exec.windows[0] != 3*time.Second {
		t.Errorf("expected 3s window, got %v", exec.windows[0])
	}

	res := serve.Execute(context.Background(), Input{"path": "/tmp/site", "port": 70000.0})
	if res.Kind != runner.KindInvalidInput {
		t.Errorf("expected out-of-range port to be rejected, got %+v", res)
	}
}

func TestPolicyRestrictsPaths(t *testing.T) {
	exec := &fakeExec{result: runner.Result{Success: true}}
	policy, err := NewPolicy([]string{"/srv/sites/**"})
	if err != nil {
		t.Fatalf("NewPolicy failed: %v", err)
	}
	a := newTestAdapter(t, exec, WithPolicy(policy))
	build, _ := a.Tool("demo_build")

	res := build.Execute(context.Background(), Input{"path": "/etc"})
	if res.Kind != runner.KindInvalidInput {
		t.Errorf("expected path outside roots to be rejected, got %+v", res)
	}

	res = build.Execute(context.Background(), Input{"path": "/srv/sites/blog", "output": "/etc/out"})
	if res.Kind != runner.KindInvalidInput {
		t.Errorf("expected output outside roots to be rejected, got %+v", res)
	}

	res = build.Execute(context.Background(), Input{"path": "/srv/sites/blog"})
	if !res.Success {
		t.Errorf("expected path inside roots to run, got %+v", res)
	}
	if exec.calls() != 1 {
		t.Errorf("expected exactly one spawn, got %d", exec.calls())
	}
}

func TestNewRejectsInvalidBindings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Binding)
	}{
		{"uppercase name", func(b *Binding) { b.Name = "Demo" }},
		{"leading digit", func(b *Binding) { b.Name = "1demo" }},
		{"underscore", func(b *Binding) { b.Name = "demo_ssg" }},
		{"empty binary", func(b *Binding) { b.Binary = "" }},
		{"absolute binary", func(b *Binding) { b.Binary = "/usr/bin/demo" }},
		{"nil args", func(b *Binding) { b.Operations[0].Args = nil }},
		{"duplicate op", func(b *Binding) { b.Operations = append(b.Operations, b.Operations[0]) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := testBinding()
			tc.mutate(&b)
			if _, err := New(b, &fakeExec{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConcurrentConnectDisconnect(t *testing.T) {
	exec := &fakeExec{result: runner.Result{Success: true, Stdout: "2.0.0"}}
	a := newTestAdapter(t, exec)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			a.Connect(context.Background())
		}()
		go func() {
			defer wg.Done()
			a.Disconnect()
		}()
	}
	wg.Wait()

	st := a.Status()
	switch st.State {
	case StateConnected:
		if st.Version != "2.0.0" {
			t.Errorf("connected snapshot with torn version %q", st.Version)
		}
	case StateDisconnected:
		if st.Version != "" {
			t.Errorf("disconnected snapshot with version %q", st.Version)
		}
	default:
		t.Errorf("unexpected state %q", st.State)
	}

	a.Disconnect()
	if a.IsConnected() {
		t.Error("disconnect must win when applied last")
	}
}

func TestMissingBinaryWithRealRunner(t *testing.T) {
	b := testBinding()
	b.Binary = "qed-ssg-missing-demo-12345"
	a, err := New(b, runner.New())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if a.Connect(context.Background()) {
		t.Error("connect should fail for a missing binary")
	}

	build, _ := a.Tool("demo_build")
	res := build.Execute(context.Background(), Input{"path": "/nonexistent/path/12345"})
	if res.Success {
		t.Error("expected failure")
	}
	if res.Code == 0 {
		t.Error("expected non-zero code")
	}
}
