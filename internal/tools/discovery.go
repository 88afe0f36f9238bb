package tools

import (
	"context"
	"errors"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
	"github.com/hyperpolymath/qed-ssg/internal/registry"
)

// lookupError maps registry lookups onto JSON-RPC errors.
func lookupError(tool string, err error) error {
	if errors.Is(err, registry.ErrAdapterNotFound) {
		return NewInvalidParamsError(tool, err)
	}
	return NewToolExecutionError(tool, err)
}

type StatusResult struct {
	Name string `json:"name"`
	adapter.Status
}

func newListAdapters(reg *registry.Registry) Tool {
	return &funcTool{
		name:        "list_adapters",
		title:       "List Adapters",
		description: "List every static site generator adapter with its language, tools and connection state",
		schema: adapter.ObjectSchema(map[string]adapter.Property{
			"language": {Type: adapter.TypeString, Description: "Only list adapters for this language"},
		}),
		annotations: ReadOnlyAnnotations(),
		run: func(ctx context.Context, in adapter.Input) (any, error) {
			infos := reg.Infos()
			if lang := in.String("language"); lang != "" {
				filtered := infos[:0]
				for _, info := range infos {
					if info.Language == lang {
						filtered = append(filtered, info)
					}
				}
				infos = filtered
			}
			return map[string]any{"adapters": infos, "count": len(infos)}, nil
		},
	}
}

func newAdapterStatus(reg *registry.Registry) Tool {
	return &funcTool{
		name:        "adapter_status",
		title:       "Adapter Status",
		description: "Report an adapter's connection state and cached version; with probe set the binary is probed first",
		schema: adapter.ObjectSchema(map[string]adapter.Property{
			"name":  {Type: adapter.TypeString, Description: "Adapter name"},
			"probe": {Type: adapter.TypeBoolean, Description: "Connect before reporting"},
		}, "name"),
		annotations: ReadOnlyAnnotations(),
		run: func(ctx context.Context, in adapter.Input) (any, error) {
			name := in.String("name")
			st, err := reg.Status(ctx, name, in.Bool("probe"))
			if err != nil {
				return nil, lookupError("adapter_status", err)
			}
			return StatusResult{Name: name, Status: st}, nil
		},
	}
}

func newConnectAdapter(reg *registry.Registry) Tool {
	return &funcTool{
		name:        "connect_adapter",
		title:       "Connect Adapter",
		description: "Probe an adapter's binary and mark it connected when found",
		schema:      nameSchema("Adapter name"),
		annotations: SafeWriteAnnotations(),
		run: func(ctx context.Context, in adapter.Input) (any, error) {
			a, err := reg.Get(in.String("name"))
			if err != nil {
				return nil, lookupError("connect_adapter", err)
			}
			connected := a.Connect(ctx)
			return map[string]any{"name": a.Name(), "connected": connected, "status": a.Status()}, nil
		},
	}
}

func newDisconnectAdapter(reg *registry.Registry) Tool {
	return &funcTool{
		name:        "disconnect_adapter",
		title:       "Disconnect Adapter",
		description: "Mark an adapter disconnected and forget its cached version",
		schema:      nameSchema("Adapter name"),
		annotations: SafeWriteAnnotations(),
		run: func(ctx context.Context, in adapter.Input) (any, error) {
			a, err := reg.Get(in.String("name"))
			if err != nil {
				return nil, lookupError("disconnect_adapter", err)
			}
			a.Disconnect()
			return map[string]any{"name": a.Name(), "connected": a.IsConnected()}, nil
		},
	}
}

func newRegistryStats(reg *registry.Registry) Tool {
	return &funcTool{
		name:        "registry_stats",
		title:       "Registry Statistics",
		description: "Count adapters and tools and group adapters by language",
		schema:      adapter.ObjectSchema(nil),
		annotations: ReadOnlyAnnotations(),
		run: func(ctx context.Context, in adapter.Input) (any, error) {
			return reg.Stats(), nil
		},
	}
}
