package logging

import (
	"log/slog"
	"testing"

	"github.com/servicepi/servicepi-core/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	log := New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	if log.Enabled(nil, slog.LevelInfo) {
		t.Error("info should be filtered at error level")
	}
	if !log.Enabled(nil, slog.LevelError) {
		t.Error("error should pass at error level")
	}
}

func TestWith(t *testing.T) {
	log := Default()
	child := log.With("component", "test")

	if child == nil || child.Logger == nil {
		t.Fatal("With() returned nil logger")
	}
	if child == log {
		t.Error("With() should return a new logger")
	}
}
