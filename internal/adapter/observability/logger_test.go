package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interview/internal/config"
)

func TestSetupLogger_DevAndProd(t *testing.T) {
	dev := SetupLogger(config.Config{AppEnv: "dev", OTELServiceName: "svc"})
	assert.True(t, dev.Enabled(context.Background(), slog.LevelDebug))

	prod := SetupLogger(config.Config{AppEnv: "prod", OTELServiceName: "svc"})
	assert.False(t, prod.Enabled(context.Background(), slog.LevelDebug))
}

func TestLogLevelOverride(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, logLevel(config.Config{AppEnv: "dev", LogLevel: "WARN"}))
	assert.Equal(t, slog.LevelDebug, logLevel(config.Config{AppEnv: "prod", LogLevel: "debug"}))
	assert.Equal(t, slog.LevelInfo, logLevel(config.Config{AppEnv: "prod", LogLevel: "loud"}))
}

func TestNewLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, config.Config{AppEnv: "test", OTELServiceName: "ai-mock-interview"}).Info("hello", slog.String("k", "v"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "ai-mock-interview", line["service"])
	assert.Equal(t, "test", line["env"])
	assert.Equal(t, "v", line["k"])
}
