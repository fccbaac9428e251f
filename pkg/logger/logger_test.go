package logger

import (
	"testing"

	"skill_tracker_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestApplyLevel(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	ApplyLevel(cfg)
	assert.Equal(t, zap.DebugLevel, Level.Level())

	cfg.Server.Mode = "release"
	ApplyLevel(cfg)
	assert.Equal(t, zap.InfoLevel, Level.Level())

	cfg.Log.Level = "warn"
	ApplyLevel(cfg)
	assert.Equal(t, zap.WarnLevel, Level.Level())

	cfg.Log.Level = "loud"
	ApplyLevel(cfg)
	assert.Equal(t, zap.InfoLevel, Level.Level(), "unknown level falls back to server mode")
}
