package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: &buf}))
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	l := WithComponent("close")
	l.Info().Str("job_id", "job-1").Msg("Job closed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "close", entry["component"])
	assert.Equal(t, "job-1", entry["job_id"])
	assert.Equal(t, "Job closed", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestSetup_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(LogConfig{Level: "warn", Format: "json", Output: &buf}))
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	l := WithComponent("test")
	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Equal(t, slog.LevelWarn, SlogLevel())
}

func TestSetup_InvalidConfig(t *testing.T) {
	assert.Error(t, Setup(LogConfig{Level: "loud", Format: "json"}))
	assert.Error(t, Setup(LogConfig{Level: "info", Format: "xml"}))
}
