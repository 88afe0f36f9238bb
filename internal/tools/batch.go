package tools

import (
	"context"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
	"github.com/hyperpolymath/qed-ssg/internal/registry"
)

type BatchResult struct {
	Results   map[string]adapter.Result `json:"results"`
	Succeeded int                       `json:"succeeded"`
	Failed    int                       `json:"failed"`
}

func newBatchBuild(reg *registry.Registry, rec Recorder) Tool {
	return &funcTool{
		name:        "batch_build",
		title:       "Batch Build",
		description: "Build one source tree with several generators concurrently; with more than one adapter each writes to outputPath/<adapter>",
		schema: adapter.ObjectSchema(map[string]adapter.Property{
			"adapters": {
				Type:        adapter.TypeArray,
				Description: "Adapter names; empty or omitted builds with every adapter",
				Items:       &adapter.Property{Type: adapter.TypeString},
			},
			"sourcePath": {Type: adapter.TypeString, Description: "Site source directory", IsPath: true},
			"outputPath": {Type: adapter.TypeString, Description: "Output directory", IsPath: true},
		}, "sourcePath"),
		annotations: SafeWriteAnnotations(),
		run: func(ctx context.Context, in adapter.Input) (any, error) {
			results := reg.BatchBuild(ctx, registry.BuildRequest{
				Adapters: in.Strings("adapters"),
				Source:   in.String("sourcePath"),
				Output:   in.String("outputPath"),
			})

			out := BatchResult{Results: results}
			for name, res := range results {
				if res.Success {
					out.Succeeded++
				} else {
					out.Failed++
				}
				if hasAdapter(reg, name) {
					record(ctx, rec, name, name+"_"+string(adapter.OpBuild), res)
				}
			}
			return out, nil
		},
	}
}

func hasAdapter(reg *registry.Registry, name string) bool {
	_, err := reg.Get(name)
	return err == nil
}
