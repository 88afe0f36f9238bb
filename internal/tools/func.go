package tools

import (
	"context"
	"encoding/json"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
)

// funcTool is a host tool whose input is validated against a schema before
// run is called.
type funcTool struct {
	name        string
	title       string
	description string
	schema      adapter.Schema
	annotations map[string]bool
	run         func(ctx context.Context, in adapter.Input) (any, error)
}

func (t *funcTool) Name() string                 { return t.name }
func (t *funcTool) Title() string                { return t.title }
func (t *funcTool) Description() string          { return t.description }
func (t *funcTool) Annotations() map[string]bool { return t.annotations }

func (t *funcTool) Schema() json.RawMessage {
	data, _ := json.Marshal(t.schema)
	return data
}

func (t *funcTool) Execute(ctx context.Context, input json.RawMessage) (any, error) {
	in, err := adapter.DecodeInput(input)
	if err != nil {
		return nil, NewInvalidParamsError(t.name, err)
	}
	if err := t.schema.Validate(in); err != nil {
		return nil, NewInvalidParamsError(t.name, err)
	}
	return t.run(ctx, in)
}

func nameSchema(description string) adapter.Schema {
	return adapter.ObjectSchema(map[string]adapter.Property{
		"name": {Type: adapter.TypeString, Description: description},
	}, "name")
}
