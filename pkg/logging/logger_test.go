package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "info"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("recommend", zap.Int64("user_id", 7), zap.Int("results", 3))
	require.NoError(t, logger.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "recommend", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, float64(7), entry["user_id"])
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)

	_, err = New(Config{Format: "xml"})
	require.Error(t, err)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cocktailkit.log")
	cfg := DefaultConfig()
	cfg.Path = path
	cfg.Format = "console"

	logger, err := New(cfg)
	require.NoError(t, err)
	logger.Warn("store unavailable")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "store unavailable")
}
