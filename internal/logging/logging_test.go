package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		" warn": slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, FormatText, "test")

	logger.Info("hidden")
	logger.Warn("shown", "n", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "n=3")
}

func TestWithRunTagsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, id := WithRun(New(&buf, slog.LevelInfo, FormatJSON, "soak"))
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	logger.Info("started")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, id, record["run_id"])
	assert.Equal(t, "soak", record["component"])
	assert.Equal(t, "started", record["msg"])
}
