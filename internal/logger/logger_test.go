package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/princekumarofficial/media-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, config.Log{Level: "info", Format: "json"})

	l.Debug("hidden")
	l.Info("upload finished", slog.String("public_id", "abc123"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "upload finished", line["msg"])
	assert.Equal(t, "abc123", line["public_id"])
}

func TestNew_TextDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, config.Log{Level: "debug", Format: "text"})

	l.Debug("late callback ignored")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `msg="late callback ignored"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
