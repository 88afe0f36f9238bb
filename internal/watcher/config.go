package watcher

import "time"

type WatcherConfig struct {
	DebounceWindow time.Duration
	MaxBatchSize   int
}

func DefaultConfig() WatcherConfig {
	return WatcherConfig{
		DebounceWindow: 300 * time.Millisecond,
		MaxBatchSize:   100,
	}
}
