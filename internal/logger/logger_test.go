package logger

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap/zapcore"
)

func TestProperty_ConfiguredLevelIsHonored(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("entries below the configured level are disabled", prop.ForAll(
		func(env string, level string) bool {
			logger, err := New(env, level)
			if err != nil {
				t.Logf("FAIL: New(%q, %q): %v", env, level, err)
				return false
			}
			defer logger.Sync()

			want, _ := zapcore.ParseLevel(level)
			core := logger.Core()

			return core.Enabled(want) && (want == zapcore.DebugLevel || !core.Enabled(want-1))
		},
		gen.OneConstOf("production", "development"),
		gen.OneConstOf("debug", "info", "warn", "error"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := New("production", "chatty")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled for an unknown level")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be enabled for an unknown level")
	}
}

func TestNewWithDefaults(t *testing.T) {
	t.Setenv("SERVER_ENV", "")
	t.Setenv("LOG_LEVEL", "warn")

	logger := NewWithDefaults()
	if logger == nil {
		t.Fatal("Logger should not be nil")
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
}
