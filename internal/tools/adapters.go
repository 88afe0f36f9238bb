package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
	"github.com/hyperpolymath/qed-ssg/internal/history"
	"github.com/hyperpolymath/qed-ssg/internal/logger"
)

var log = logger.ForComponent("tools")

// Recorder persists finished invocations. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, r history.Record) (int64, error)
}

// AdapterTool serves an adapter tool over MCP. Its result is the
// adapter.Result unchanged; every invocation is recorded when a Recorder is
// configured.
type AdapterTool struct {
	tool     *adapter.Tool
	adapter  string
	recorder Recorder
	schema   json.RawMessage
}

func NewAdapterTool(a *adapter.Adapter, t *adapter.Tool, rec Recorder) (*AdapterTool, error) {
	schema, err := json.Marshal(t.InputSchema())
	if err != nil {
		return nil, err
	}
	return &AdapterTool{tool: t, adapter: a.Name(), recorder: rec, schema: schema}, nil
}

func (t *AdapterTool) Name() string            { return t.tool.Name() }
func (t *AdapterTool) Description() string     { return t.tool.Description() }
func (t *AdapterTool) Schema() json.RawMessage { return t.schema }

func (t *AdapterTool) Title() string {
	return t.adapter + " " + strings.ToUpper(string(t.tool.Op())[:1]) + string(t.tool.Op())[1:]
}

func (t *AdapterTool) Annotations() map[string]bool {
	return AnnotationsForOp(t.tool.Op())
}

func (t *AdapterTool) Execute(ctx context.Context, input json.RawMessage) (any, error) {
	res := t.tool.ExecuteJSON(ctx, input)
	record(ctx, t.recorder, t.adapter, t.tool.Name(), res)
	return res, nil
}

func record(ctx context.Context, rec Recorder, adapterName, tool string, res adapter.Result) {
	if rec == nil {
		return
	}
	_, err := rec.Record(context.WithoutCancel(ctx), history.Record{
		Adapter:  adapterName,
		Tool:     tool,
		Success:  res.Success,
		Code:     res.Code,
		Kind:     string(res.Kind),
		Duration: res.Duration,
	})
	if err != nil {
		log.Warn("failed to record invocation", "tool", tool, "error", err)
	}
}
