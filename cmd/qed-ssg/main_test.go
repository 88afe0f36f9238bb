package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/hyperpolymath/qed-ssg/internal/config"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvSocket, filepath.Join(t.TempDir(), "d.sock"))

	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestUsageErrorsCarryExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"run with malformed input", []string{"run", "zola_version", "--input", "{"}, 2},
		{"build-all without source", []string{"build-all"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			var ex ExitCoder
			if !errors.As(err, &ex) {
				t.Fatalf("expected an exit coder, got %v", err)
			}
			if ex.ExitCode() != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, ex.ExitCode())
			}
		})
	}
}

func TestRejectsUnknownLogLevel(t *testing.T) {
	err := execute(t, "--log-level", "chatty", "version")
	if err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestRunUnknownTool(t *testing.T) {
	if err := execute(t, "run", "nosuch_tool"); err == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestVersion(t *testing.T) {
	if err := execute(t, "version"); err != nil {
		t.Fatalf("version failed: %v", err)
	}
}
