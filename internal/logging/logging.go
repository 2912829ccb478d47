// Package logging configures the process wide zap logger.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the logger flavour and an optional rotated log file.
type Options struct {
	Mode     string // "production" or anything else for development
	Level    string
	Filename string
}

// Init builds the logger, installs it as the zap global and returns it.
// Callers should defer logger.Sync().
func Init(opts Options) *zap.Logger {
	var encCfg zapcore.EncoderConfig
	var enc zapcore.Encoder
	if opts.Mode == "production" {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Level != "" {
		if l, err := zapcore.ParseLevel(opts.Level); err == nil {
			level.SetLevel(l)
		}
	}

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stdout)}
	if opts.Filename != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.Filename,
			MaxSize:    16,
			MaxBackups: 5,
			MaxAge:     14,
			Compress:   true,
		}))
	}

	logger := zap.New(zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(sinks...), level), zap.AddCaller())
	zap.ReplaceGlobals(logger)
	return logger
}
