package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hyperpolymath/qed-ssg/internal/runner"
)

// Tool is an immutable, invocable capability of an adapter.
type Tool struct {
	name        string
	description string
	op          Op
	schema      Schema
	execute     func(ctx context.Context, in Input) Result
}

func (t *Tool) Name() string        { return t.name }
func (t *Tool) Description() string { return t.description }
func (t *Tool) Op() Op              { return t.op }
func (t *Tool) InputSchema() Schema { return t.schema }

// Execute validates in against the input schema and runs the tool. Invalid
// input is rejected before any process is spawned. A Result is always
// returned.
func (t *Tool) Execute(ctx context.Context, in Input) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("tool panicked", "tool", t.name, "panic", r)
			res = Result{
				Success: false,
				Stderr:  fmt.Sprintf("internal error in %s: %v", t.name, r),
				Code:    70,
				Kind:    runner.KindExecutionFailed,
			}
		}
	}()

	if in == nil {
		in = Input{}
	}
	if err := t.schema.Validate(in); err != nil {
		return runner.Invalid("%s: %v", t.name, err)
	}
	return t.execute(ctx, in)
}

// ExecuteJSON decodes raw JSON arguments and executes the tool.
func (t *Tool) ExecuteJSON(ctx context.Context, data json.RawMessage) Result {
	in, err := DecodeInput(data)
	if err != nil {
		return runner.Invalid("%s: arguments are not a JSON object: %v", t.name, err)
	}
	return t.Execute(ctx, in)
}

func (t *Tool) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		InputSchema Schema `json:"inputSchema"`
	}{t.name, t.description, t.schema})
}
