package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Nitinadonis1/Weather---app/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONToOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(config.LoggingConfig{Level: "warn", Format: "json", OutputPath: path})
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept", zap.String("city", "Tokyo"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"city":"Tokyo"`)
}

func TestNew_LevelIsApplied(t *testing.T) {
	log, err := New(config.LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
