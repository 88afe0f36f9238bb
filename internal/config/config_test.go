package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvSocket, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.History.Path != ":memory:" {
		t.Errorf("expected in-memory history, got %q", cfg.History.Path)
	}
	timeouts := cfg.AdapterTimeouts()
	if timeouts.Build != 5*time.Minute || timeouts.Connect != 30*time.Second {
		t.Errorf("unexpected default timeouts: %+v", timeouts)
	}
	if cfg.Path() != "" {
		t.Errorf("expected no config path, got %q", cfg.Path())
	}
}

func TestLoadTOML(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := writeFile(t, "qed-ssg.toml", `
[log]
level = "debug"
format = "json"

[timeouts]
build = "90s"
serve_window = "2s"

[adapters]
disabled = ["wub"]
allowed_roots = ["/srv/sites/**"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if got := cfg.AdapterTimeouts().Build; got != 90*time.Second {
		t.Errorf("expected 90s build timeout, got %v", got)
	}
	if got := cfg.AdapterTimeouts().Connect; got != 30*time.Second {
		t.Errorf("unset timeouts should keep defaults, got %v", got)
	}
	if cfg.Selects("wub") || !cfg.Selects("zola") {
		t.Error("disabled list not applied")
	}
	if cfg.Path() != path {
		t.Errorf("expected path %s, got %s", path, cfg.Path())
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "qed-ssg.yaml", `
timeouts:
  connect: 5s
adapters:
  enabled: [zola, mdbook]
history:
  path: /tmp/history.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.AdapterTimeouts().Connect; got != 5*time.Second {
		t.Errorf("expected 5s connect timeout, got %v", got)
	}
	if !cfg.Selects("zola") || cfg.Selects("cobalt") {
		t.Error("enabled list not applied")
	}
	if cfg.History.Path != "/tmp/history.db" {
		t.Errorf("unexpected history path %q", cfg.History.Path)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	path := writeFile(t, "qed-ssg.toml", "[log]\nlevel = \"warn\"\n")
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvSocket, "/tmp/qed.sock")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("env should override file log level, got %q", cfg.Log.Level)
	}
	if cfg.Daemon.SocketPath != "/tmp/qed.sock" {
		t.Errorf("unexpected socket path %q", cfg.Daemon.SocketPath)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unknown extension", "config.ini", "", "unsupported format"},
		{"bad duration", "c.toml", "[timeouts]\nbuild = \"soon\"\n", "invalid duration"},
		{"negative timeout", "c.yaml", "timeouts:\n  build: -1s\n", "timeouts.build must be positive"},
		{"bad level", "c.toml", "[log]\nlevel = \"loud\"\n", "unknown log level"},
		{"bad adapter", "c.toml", "[adapters]\nenabled = [\"Zola\"]\n", "invalid adapter name"},
		{"bad root", "c.toml", "[adapters]\nallowed_roots = [\"/srv/[\"]\n", "invalid allowed root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLogLevel, "")
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLiveApply(t *testing.T) {
	live, err := NewLive(Default())
	if err != nil {
		t.Fatalf("NewLive failed: %v", err)
	}
	if err := live.Policy().Allow("/anywhere"); err != nil {
		t.Errorf("empty policy should allow everything: %v", err)
	}

	next := Default()
	next.Timeouts.Build = Duration(time.Second)
	next.Adapters.AllowedRoots = []string{"/srv/**"}
	if err := live.Apply(next); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if live.Timeouts().Build != time.Second {
		t.Errorf("expected 1s build timeout, got %v", live.Timeouts().Build)
	}
	if err := live.Policy().Allow("/etc/passwd"); err == nil {
		t.Error("expected path outside roots to be rejected")
	}
}

func TestLiveWatchReloads(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := writeFile(t, "qed-ssg.toml", "[timeouts]\nbuild = \"1m\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	live, err := NewLive(cfg)
	if err != nil {
		t.Fatalf("NewLive failed: %v", err)
	}
	if err := live.Watch(context.Background(), cfg.Path()); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer live.Close()

	if err := os.WriteFile(path, []byte("[timeouts]\nbuild = \"7s\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if live.Timeouts().Build == 7*time.Second {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("config was not reloaded, build timeout is %v", live.Timeouts().Build)
}
