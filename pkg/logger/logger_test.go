package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/thegioirubik/lubestation-service/pkg/config"
)

func TestNew_LevelFromConfig(t *testing.T) {
	l := New("production", config.LoggerConfig{Level: "warn", Encoding: "json"})

	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_LocalIsVerbose(t *testing.T) {
	l := New("local", config.LoggerConfig{Level: "info"})

	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	l := New("production", config.LoggerConfig{Level: "chatty", Encoding: "json"})

	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
