// Package logger builds the zap logger used for request log lines.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. dev selects the human-readable development
// encoder; otherwise a JSON production logger at level is returned.
// Unknown levels fall back to info.
func New(level string, dev bool) (*zap.Logger, error) {
	var cfg zap.Config

	if dev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level.SetLevel(ParseLevel(level))
	}

	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "error":
		return zap.ErrorLevel
	case "warn":
		return zap.WarnLevel
	case "debug":
		return zap.DebugLevel
	default:
		return zap.InfoLevel
	}
}
