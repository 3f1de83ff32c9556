// Package logging constructs the zap.Logger used by the engine's hot path.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger. Development mode uses a colorized console
// encoder; production mode uses the JSON encoder at info level. Callers
// should defer the returned sync func.
func New(isProd bool) (*zap.Logger, func() error) {
	var logger *zap.Logger
	if isProd {
		logger = zap.Must(zap.NewProduction())
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger = zap.Must(cfg.Build())
	}
	return logger, logger.Sync
}
