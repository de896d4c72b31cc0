// File: internal/logutil/logutil.go
// Author: momentics <momentics@gmail.com>
//
// Structured logger construction for primkit demos and the control
// reporter. Console output by default; an optional rotating file sink
// keeps long-running demo logs bounded.

package logutil

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects sinks and verbosity for NewLogger.
type Options struct {
	Level      zapcore.Level
	FilePath   string // empty disables the file sink
	MaxSizeMB  int    // rotation threshold, lumberjack default when zero
	MaxBackups int
}

// NewLogger builds a production-encoded zap logger writing to stderr and,
// when configured, to a size-rotated file.
func NewLogger(opts Options) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			opts.Level,
		),
	}
	if opts.FilePath != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		})
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			sink,
			opts.Level,
		))
	}
	return zap.New(zapcore.NewTee(cores...))
}

// NewDemoLogger is the console-only logger the example programs use.
func NewDemoLogger() *zap.Logger {
	return NewLogger(Options{Level: zapcore.InfoLevel})
}
