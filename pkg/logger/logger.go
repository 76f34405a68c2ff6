package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thegioirubik/lubestation-service/pkg/config"
)

// New builds the process logger. Local and development environments get a
// human-readable console encoder at debug level.
func New(appEnv string, cfg config.LoggerConfig) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if appEnv == "local" || appEnv == "development" {
		zcfg = zap.NewDevelopmentConfig()
		cfg.Encoding = "console"
		if cfg.Level == "" || cfg.Level == "info" {
			cfg.Level = "debug"
		}
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Encoding != "" {
		zcfg.Encoding = cfg.Encoding
	}
	zcfg.DisableCaller = cfg.DisableCaller
	zcfg.DisableStacktrace = cfg.DisableStacktrace

	l, err := zcfg.Build()
	if err != nil {
		return zap.NewExample()
	}
	return l.With(zap.String("env", appEnv))
}
