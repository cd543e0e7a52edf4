package logger

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"info":    zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_CreatesLogDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "app.log")
	l := New(Config{Env: "production", Level: "warn", File: file, MaxSizeMB: 1, MaxAgeDays: 1})

	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
	assert.DirExists(t, filepath.Dir(file))
}
