package observability

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ayusman/aircursor/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggerConfig{Level: "debug", Format: "json", ServiceName: "aircursor"}, zapcore.AddSync(&buf))

	logger.Named("pipeline").Debug("click", zap.Int("x", 10))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "aircursor.pipeline", entry["logger"])
	assert.Equal(t, "click", entry["msg"])
	assert.EqualValues(t, 10, entry["x"])
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "aircursor"}, zapcore.AddSync(&buf))

	logger.Info("camera opened")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "aircursor.")
	assert.Contains(t, out, "camera opened")
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggerConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggerConfig{Level: "loud", Format: "json"}, zapcore.AddSync(&buf))

	logger.Debug("hidden")
	logger.Info("shown")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aircursor.log")
	var console bytes.Buffer
	logger := NewLogger(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, zapcore.AddSync(&console))

	logger.Info("session started", zap.String("session", "abc"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "abc", entry["session"])
	assert.Contains(t, console.String(), "session started")
}

func TestInstall(t *testing.T) {
	logger, restore := Install(config.LoggerConfig{Level: "info", Format: "json"})
	defer restore()

	assert.Same(t, logger, zap.L())

	// The standard library logger is redirected; writing must not panic.
	log.Print("redirected")
}
