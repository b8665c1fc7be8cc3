package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogsSafelyBeforeInit(t *testing.T) {
	assert.NotNil(t, Logger)
	assert.NotPanics(t, func() {
		Debug("debug line")
		Info("info line")
		Warn("warn line")
		Error("error line")
	})
}

func TestInitSetsLevel(t *testing.T) {
	Init(false)
	assert.False(t, Logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, Logger.Enabled(context.Background(), slog.LevelInfo))

	Init(true)
	assert.True(t, Logger.Enabled(context.Background(), slog.LevelDebug))
}
