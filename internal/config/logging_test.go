package config

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	logger.Warn("careful", "table", "t_user")
	assert.Contains(t, buf.String(), `"msg":"careful"`)
	assert.Contains(t, buf.String(), `"table":"t_user"`)
}

func TestNewLogger_DefaultsToInfoText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{}.NewLogger(&buf)
	require.NoError(t, err)

	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	logger.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNewLogger_Invalid(t *testing.T) {
	_, err := LogConfig{Level: "loud"}.NewLogger(&bytes.Buffer{})
	assert.ErrorContains(t, err, "log.level")

	_, err = LogConfig{Format: "xml"}.NewLogger(&bytes.Buffer{})
	assert.ErrorContains(t, err, "log.format")
}
