package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Setenv(LevelEnvVar, "")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if got, want := CurrentPath(), Path(configDir); got != want {
		t.Errorf("CurrentPath() = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Dir(CurrentPath())); err != nil {
		t.Errorf("log directory was not created: %v", err)
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message", "key", "value")
	Error("Test error message")
}

func TestComponentWritesToFile(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Setenv(LevelEnvVar, "")

	if err := Init(Config{Debug: true, Quiet: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	Named("backup").Warn("rotation skipped", "dir", "/tmp/x")

	data, err := os.ReadFile(Path(configDir))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "rotation skipped") || !strings.Contains(out, "component=backup") {
		t.Errorf("log file missing component record:\n%s", out)
	}
}

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		debug    bool
		override string
		want     log.Level
	}{
		{false, "", log.WarnLevel},
		{true, "", log.DebugLevel},
		{false, "info", log.InfoLevel},
		{true, "ERROR", log.ErrorLevel},
		{false, "loud", log.WarnLevel},
		{true, "  ", log.DebugLevel},
	}
	for _, tt := range tests {
		if got := resolveLevel(tt.debug, tt.override); got != tt.want {
			t.Errorf("resolveLevel(%v, %q) = %v, want %v", tt.debug, tt.override, got, tt.want)
		}
	}
}

func TestLogBeforeInit(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	// Must not panic without a logger.
	Debug("ignored")
	Named("store").Warn("ignored")
}
