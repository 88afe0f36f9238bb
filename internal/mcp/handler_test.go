package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
	"github.com/hyperpolymath/qed-ssg/internal/catalog"
	"github.com/hyperpolymath/qed-ssg/internal/registry"
	"github.com/hyperpolymath/qed-ssg/internal/runner"
	"github.com/hyperpolymath/qed-ssg/internal/tools"
	"github.com/hyperpolymath/qed-ssg/pkg/protocol"
)

type fakeExec struct{}

func (fakeExec) Run(ctx context.Context, c runner.Command) runner.Result {
	if c.Binary == "zola" {
		return runner.NotFound(c.Binary)
	}
	return runner.Result{Success: true, Stdout: c.Binary + " 1.0.0"}
}

func (f fakeExec) Start(ctx context.Context, c runner.Command, window time.Duration) runner.Result {
	return f.Run(ctx, c)
}

type panicTool struct{}

func (panicTool) Name() string            { return "explode" }
func (panicTool) Description() string     { return "panics" }
func (panicTool) Schema() json.RawMessage { return json.RawMessage(`{"type":"object","properties":{}}`) }
func (panicTool) Execute(ctx context.Context, input json.RawMessage) (any, error) {
	panic("boom")
}

// blockingTool runs until its context is cancelled.
type blockingTool struct {
	started chan struct{}
}

func (blockingTool) Name() string            { return "wait" }
func (blockingTool) Description() string     { return "blocks until cancelled" }
func (blockingTool) Schema() json.RawMessage { return json.RawMessage(`{"type":"object","properties":{}}`) }
func (b blockingTool) Execute(ctx context.Context, input json.RawMessage) (any, error) {
	b.started <- struct{}{}
	<-ctx.Done()
	return nil, ctx.Err()
}

func newClient(t *testing.T, extra ...tools.Tool) *jsonrpc2.Conn {
	t.Helper()

	adapters, err := catalog.Load(fakeExec{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	reg, err := registry.New(adapters)
	if err != nil {
		t.Fatal(err)
	}
	tr := tools.NewRegistry()
	if err := tools.RegisterAll(tr, tools.Deps{Adapters: reg, Started: time.Now()}); err != nil {
		t.Fatal(err)
	}
	for _, tool := range append([]tools.Tool{panicTool{}}, extra...) {
		if err := tr.Register(tool); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	serverSide, clientSide := net.Pipe()

	done := make(chan error, 1)
	go func() {
		done <- NewHandler(tr).Serve(ctx, serverSide)
	}()

	noop := jsonrpc2.HandlerWithError(func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
		return nil, nil
	})
	conn := jsonrpc2.NewConn(context.Background(), jsonrpc2.NewPlainObjectStream(clientSide), noop)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		<-done
	})
	return conn
}

func call(t *testing.T, conn *jsonrpc2.Conn, method string, params, result any) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return conn.Call(ctx, method, params, result)
}

func rpcCode(err error) int64 {
	var rpcErr *jsonrpc2.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.Code
	}
	return 0
}

func TestInitializeNegotiatesVersion(t *testing.T) {
	conn := newClient(t)

	var res protocol.InitializeResult
	err := call(t, conn, "initialize", protocol.InitializeParams{
		ProtocolVersion: "2024-11-05",
		ClientInfo:      protocol.Implementation{Name: "test", Version: "1"},
	}, &res)
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if res.ProtocolVersion != "2024-11-05" {
		t.Errorf("expected negotiated version 2024-11-05, got %s", res.ProtocolVersion)
	}
	if res.ServerInfo.Name != "qed-ssg" {
		t.Errorf("unexpected server name %q", res.ServerInfo.Name)
	}

	if err := call(t, conn, "initialize", protocol.InitializeParams{ProtocolVersion: "1999-01-01"}, &res); err != nil {
		t.Fatal(err)
	}
	if res.ProtocolVersion == "1999-01-01" {
		t.Error("unknown protocol version must not be echoed back")
	}
}

func TestPingAndUnknownMethod(t *testing.T) {
	conn := newClient(t)

	var pong map[string]any
	if err := call(t, conn, "ping", nil, &pong); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	err := call(t, conn, "resources/list", nil, nil)
	if rpcCode(err) != jsonrpc2.CodeMethodNotFound {
		t.Errorf("expected method not found, got %v", err)
	}
}

func TestListTools(t *testing.T) {
	conn := newClient(t)

	var res protocol.ListToolsResult
	if err := call(t, conn, "tools/list", nil, &res); err != nil {
		t.Fatalf("tools/list failed: %v", err)
	}

	byName := make(map[string]protocol.Tool)
	for _, tool := range res.Tools {
		byName[tool.Name] = tool
	}

	build, ok := byName["zola_build"]
	if !ok {
		t.Fatal("zola_build not listed")
	}
	var schema map[string]any
	if err := json.Unmarshal(build.InputSchema, &schema); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if schema["type"] != "object" {
		t.Errorf("unexpected schema: %v", schema)
	}
	if build.Annotations["readOnlyHint"] {
		t.Error("build must not be read-only")
	}
	if _, ok := byName["list_adapters"]; !ok {
		t.Error("list_adapters not listed")
	}
}

func TestCallToolReportsFailedResultAsToolError(t *testing.T) {
	conn := newClient(t)

	var res protocol.CallToolResult
	err := call(t, conn, "tools/call", protocol.CallToolParams{
		Name:      "zola_build",
		Arguments: json.RawMessage(`{"path":"/nonexistent/path/12345"}`),
	}, &res)
	if err != nil {
		t.Fatalf("tools/call failed: %v", err)
	}
	if !res.IsError {
		t.Error("expected isError for a failed build")
	}

	var result adapter.Result
	if err := json.Unmarshal([]byte(res.Text()), &result); err != nil {
		t.Fatalf("content is not a Result: %v", err)
	}
	if result.Success || result.Code != runner.CodeBinaryNotFound {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestCallToolSuccess(t *testing.T) {
	conn := newClient(t)

	var res protocol.CallToolResult
	err := call(t, conn, "tools/call", protocol.CallToolParams{Name: "mdbook_version"}, &res)
	if err != nil {
		t.Fatalf("tools/call failed: %v", err)
	}
	if res.IsError {
		t.Errorf("unexpected error result: %s", res.Text())
	}
}

func TestCallToolErrors(t *testing.T) {
	conn := newClient(t)

	tests := []struct {
		name   string
		params any
		code   int64
	}{
		{"unknown tool", protocol.CallToolParams{Name: "hugo_build"}, jsonrpc2.CodeMethodNotFound},
		{"missing name", protocol.CallToolParams{}, jsonrpc2.CodeInvalidParams},
		{"malformed params", []int{1, 2}, jsonrpc2.CodeInvalidParams},
		{"invalid host tool args", protocol.CallToolParams{Name: "adapter_status", Arguments: json.RawMessage(`{}`)}, jsonrpc2.CodeInvalidParams},
		{"panic", protocol.CallToolParams{Name: "explode"}, jsonrpc2.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := call(t, conn, "tools/call", tt.params, nil)
			if got := rpcCode(err); got != tt.code {
				t.Errorf("expected code %d, got %d (%v)", tt.code, got, err)
			}
		})
	}
}

func TestInitializedNotification(t *testing.T) {
	h := NewHandler(tools.NewRegistry())

	req := &jsonrpc2.Request{Method: "notifications/initialized", Notif: true}
	if _, err := h.Handle(context.Background(), nil, req); err != nil {
		t.Fatalf("notification failed: %v", err)
	}
	if !h.Initialized() {
		t.Error("expected handler to be initialized")
	}
}

func TestCancelledNotificationStopsToolCall(t *testing.T) {
	block := blockingTool{started: make(chan struct{}, 1)}
	conn := newClient(t, block)

	errc := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		errc <- conn.Call(ctx, "tools/call", protocol.CallToolParams{Name: "wait"}, nil, jsonrpc2.PickID(jsonrpc2.ID{Num: 42}))
	}()

	select {
	case <-block.started:
	case <-time.After(5 * time.Second):
		t.Fatal("tool call never started")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.Notify(ctx, "notifications/cancelled", map[string]any{"requestId": 42, "reason": "user abort"}); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	select {
	case err := <-errc:
		if err == nil {
			t.Error("expected the cancelled call to fail")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("tool call was not cancelled")
	}

	var res protocol.CallToolResult
	if err := call(t, conn, "tools/call", protocol.CallToolParams{Name: "mdbook_version"}, &res); err != nil {
		t.Fatalf("connection unusable after cancellation: %v", err)
	}
}

func TestCancelledNotificationIgnoresUnknownRequests(t *testing.T) {
	h := NewHandler(tools.NewRegistry())

	tests := []struct {
		name   string
		params string
	}{
		{"unknown id", `{"requestId":7}`},
		{"string id", `{"requestId":"abc","reason":"gone"}`},
		{"malformed", `[1,2]`},
		{"no params", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &jsonrpc2.Request{Method: "notifications/cancelled", Notif: true}
			if tt.params != "" {
				raw := json.RawMessage(tt.params)
				req.Params = &raw
			}
			if _, err := h.Handle(context.Background(), nil, req); err != nil {
				t.Errorf("cancellation must never fail, got %v", err)
			}
		})
	}
}
