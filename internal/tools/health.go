package tools

import (
	"context"
	"time"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
	"github.com/hyperpolymath/qed-ssg/internal/registry"
)

// ProcessTracker reports the development servers still running.
type ProcessTracker interface {
	Running() []int
}

type HealthResult struct {
	Status    string `json:"status"`
	Uptime    int64  `json:"uptime_seconds"`
	Adapters  int    `json:"adapters"`
	Connected int    `json:"connected"`
	Tools     int    `json:"tools"`
	Servers   []int  `json:"servers"`
}

func NewHealthTool(reg *registry.Registry, procs ProcessTracker, started time.Time) Tool {
	return &funcTool{
		name:        "health",
		title:       "Health",
		description: "Check host health: uptime, adapter counts and running development servers",
		schema:      adapter.ObjectSchema(nil),
		annotations: ReadOnlyAnnotations(),
		run: func(ctx context.Context, in adapter.Input) (any, error) {
			stats := reg.Stats()
			servers := []int{}
			if procs != nil {
				servers = append(servers, procs.Running()...)
			}
			return HealthResult{
				Status:    "healthy",
				Uptime:    int64(time.Since(started).Seconds()),
				Adapters:  stats.Adapters,
				Connected: stats.Connected,
				Tools:     stats.Tools,
				Servers:   servers,
			}, nil
		},
	}
}
