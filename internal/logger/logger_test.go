package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_JSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production", Level: slog.LevelInfo})

	log.Info("ratings reloaded", "count", 3)

	out := buf.String()
	assert.Contains(t, out, `"msg":"ratings reloaded"`)
	assert.Contains(t, out, `"count":3`)
}

func TestNew_ConsoleInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "development", Level: slog.LevelInfo})

	log.Info("ratings reloaded", "source", "file.csv")

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "ratings reloaded")
	assert.Contains(t, out, "source=file.csv")
	assert.False(t, strings.HasPrefix(out, "{"))
}

func TestConsoleHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "console", Level: slog.LevelWarn})

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WRN")
}

func TestConsoleHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "console", Level: slog.LevelDebug})

	log.Component("tmdb").WithGroup("req").Debug("search", "query", "Jujutsu Kaisen", "error", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "component=tmdb")
	assert.Contains(t, out, `req.query="Jujutsu Kaisen"`)
	assert.Contains(t, out, `req.error="boom"`)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	assert.False(t, log.Enabled(t.Context(), slog.LevelError))
}
