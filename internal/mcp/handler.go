// Package mcp serves the tool registry over the Model Context Protocol
// (JSON-RPC 2.0).
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/hyperpolymath/qed-ssg/internal/logger"
	"github.com/hyperpolymath/qed-ssg/internal/tools"
	"github.com/hyperpolymath/qed-ssg/pkg/protocol"
	"github.com/hyperpolymath/qed-ssg/pkg/version"
)

var log = logger.ForComponent("mcp")

type Handler struct {
	registry    *tools.Registry
	startTime   time.Time
	initialized atomic.Bool

	mu         sync.Mutex
	clientInfo protocol.Implementation
	inflight   map[callKey]context.CancelFunc
}

// callKey identifies a tools/call request. One handler serves every daemon
// connection and request ids are only unique per connection.
type callKey struct {
	conn *jsonrpc2.Conn
	id   jsonrpc2.ID
}

func NewHandler(registry *tools.Registry) *Handler {
	return &Handler{
		registry:  registry,
		startTime: time.Now(),
		inflight:  make(map[callKey]context.CancelFunc),
	}
}

// JSONRPC returns the jsonrpc2 handler. Requests are handled concurrently so
// a long build does not block pings or other calls on the same connection.
func (h *Handler) JSONRPC() jsonrpc2.Handler {
	return jsonrpc2.AsyncHandler(jsonrpc2.HandlerWithError(h.Handle))
}

func (h *Handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	log.Debug("request", "method", req.Method, "notification", req.Notif)

	switch req.Method {
	case "initialize":
		return h.handleInitialize(req)
	case "ping":
		return map[string]any{}, nil
	case "tools/list":
		return h.handleListTools(), nil
	case "tools/call":
		return h.handleCallTool(ctx, conn, req)
	case "notifications/initialized":
		h.initialized.Store(true)
		return nil, nil
	case "notifications/cancelled":
		h.handleCancelled(conn, req)
		return nil, nil
	default:
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}
}

func decodeParams(req *jsonrpc2.Request, v any) error {
	if req.Params == nil {
		return nil
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInvalidParams,
			Message: fmt.Sprintf("Invalid params for %s: %v", req.Method, err),
		}
	}
	return nil
}

func (h *Handler) handleInitialize(req *jsonrpc2.Request) (any, error) {
	var params protocol.InitializeParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.clientInfo = params.ClientInfo
	h.mu.Unlock()

	log.Info("client initialized", "client", params.ClientInfo.Name, "version", params.ClientInfo.Version)

	return protocol.InitializeResult{
		ProtocolVersion: negotiateProtocolVersion(params.ProtocolVersion),
		Capabilities: map[string]any{
			"tools": map[string]any{},
		},
		ServerInfo: protocol.Implementation{
			Name:    version.ServerName,
			Version: version.Version,
		},
	}, nil
}

func negotiateProtocolVersion(clientVersion string) string {
	for _, v := range version.SupportedProtocolVersions {
		if clientVersion == v {
			return v
		}
	}
	return version.ProtocolVersion
}

func (h *Handler) handleListTools() protocol.ListToolsResult {
	list := h.registry.List()
	out := protocol.ListToolsResult{Tools: make([]protocol.Tool, len(list))}

	for i, t := range list {
		desc := protocol.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Schema(),
		}
		if annotated, ok := t.(tools.AnnotatedTool); ok {
			desc.Title = annotated.Title()
			desc.Annotations = annotated.Annotations()
		}
		out.Tools[i] = desc
	}
	return out
}

// failure is implemented by tool results that carry their own outcome.
type failure interface {
	Err() error
}

type cancelledParams struct {
	RequestID jsonrpc2.ID `json:"requestId"`
	Reason    string      `json:"reason,omitempty"`
}

// handleCancelled cancels the context of the matching in-flight tools/call.
// Unknown or already finished requests are ignored.
func (h *Handler) handleCancelled(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params cancelledParams
	if req.Params == nil || json.Unmarshal(*req.Params, &params) != nil {
		log.Debug("ignoring malformed cancellation")
		return
	}

	h.mu.Lock()
	cancel, ok := h.inflight[callKey{conn: conn, id: params.RequestID}]
	h.mu.Unlock()
	if !ok {
		return
	}
	log.Info("cancelling tool call", "id", params.RequestID.String(), "reason", params.Reason)
	cancel()
}

func (h *Handler) track(ctx context.Context, conn *jsonrpc2.Conn, id jsonrpc2.ID) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	key := callKey{conn: conn, id: id}

	h.mu.Lock()
	h.inflight[key] = cancel
	h.mu.Unlock()

	return ctx, func() {
		h.mu.Lock()
		delete(h.inflight, key)
		h.mu.Unlock()
		cancel()
	}
}

func (h *Handler) handleCallTool(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("tool panic recovered", "panic", r, "stack", string(debug.Stack()))
			result = nil
			err = &jsonrpc2.Error{
				Code:    jsonrpc2.CodeInternalError,
				Message: fmt.Sprintf("tool execution panicked: %v", r),
			}
		}
	}()

	var params protocol.CallToolParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "tool name is required"}
	}

	if !req.Notif {
		var done func()
		ctx, done = h.track(ctx, conn, req.ID)
		defer done()
	}

	start := time.Now()
	out, err := h.registry.Execute(ctx, params.Name, params.Arguments)
	if err != nil {
		log.Warn("tool call failed", "tool", params.Name, "error", err)
		return nil, toRPCError(params.Name, err)
	}

	text, err := json.Marshal(out)
	if err != nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: fmt.Sprintf("failed to marshal result: %v", err)}
	}

	res := protocol.CallToolResult{
		Content: []protocol.Content{{Type: "text", Text: string(text)}},
	}
	if f, ok := out.(failure); ok && f.Err() != nil {
		res.IsError = true
	}

	log.Debug("tool call finished", "tool", params.Name, "error", res.IsError, "duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

func toRPCError(name string, err error) *jsonrpc2.Error {
	var te *tools.ToolError
	if errors.As(err, &te) {
		return &jsonrpc2.Error{Code: int64(te.Code), Message: te.Message}
	}
	te = tools.NewToolExecutionError(name, err)
	return &jsonrpc2.Error{Code: int64(te.Code), Message: te.Message}
}

func (h *Handler) ClientInfo() protocol.Implementation {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clientInfo
}

func (h *Handler) Initialized() bool {
	return h.initialized.Load()
}
