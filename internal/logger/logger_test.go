package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := FromStrings("info", "json")
	cfg.Output = &buf

	log := New(cfg)
	log.Debug("hidden")
	log.Info("ingested", "chunks", 4)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ingested", entry["msg"])
	assert.EqualValues(t, 4, entry["chunks"])
}

func TestFromStrings_Text(t *testing.T) {
	cfg := FromStrings("debug", "TEXT")
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, slog.LevelDebug, cfg.Level)
}
