package tools

import (
	"context"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
	"github.com/hyperpolymath/qed-ssg/internal/history"
)

const defaultHistoryLimit = 50

func newInvocationHistory(store *history.Store) Tool {
	return &funcTool{
		name:        "invocation_history",
		title:       "Invocation History",
		description: "List recent adapter tool invocations, newest first, with per-adapter totals",
		schema: adapter.ObjectSchema(map[string]adapter.Property{
			"adapter":     {Type: adapter.TypeString, Description: "Only invocations of this adapter"},
			"tool":        {Type: adapter.TypeString, Description: "Only invocations of this tool"},
			"failed_only": {Type: adapter.TypeBoolean, Description: "Only failed invocations"},
			"limit":       {Type: adapter.TypeInteger, Description: "Maximum number of records", Minimum: ptr(1), Maximum: ptr(1000)},
		}),
		annotations: ReadOnlyAnnotations(),
		run: func(ctx context.Context, in adapter.Input) (any, error) {
			limit, ok := in.Int("limit")
			if !ok {
				limit = defaultHistoryLimit
			}

			records, err := store.Query(ctx, history.Query{
				Adapter:    in.String("adapter"),
				Tool:       in.String("tool"),
				FailedOnly: in.Bool("failed_only"),
				Limit:      limit,
			})
			if err != nil {
				return nil, NewToolExecutionError("invocation_history", err)
			}
			summary, err := store.Summarize(ctx)
			if err != nil {
				return nil, NewToolExecutionError("invocation_history", err)
			}
			if records == nil {
				records = []history.Record{}
			}
			return map[string]any{"invocations": records, "summary": summary}, nil
		},
	}
}

func ptr(f float64) *float64 { return &f }
