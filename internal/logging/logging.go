// Package logging builds the application logger: JSON lines into a rotated
// log file plus human readable output on the console.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configure the logger
type Options struct {
	// File receives JSON log lines. Empty disables the file output.
	File  string
	Debug bool

	// Console defaults to stderr so that stdout stays free for command output
	Console io.Writer
}

// New creates the logger. The returned function flushes and closes the log
// file.
func New(opts Options) (*zap.Logger, func() error) {
	level := zap.InfoLevel
	if opts.Debug {
		level = zap.DebugLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(console)),
		level,
	)

	if opts.File == "" {
		logger := zap.New(consoleCore)
		return logger, func() error {
			_ = logger.Sync()
			return nil
		}
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		level,
	)

	logger := zap.New(zapcore.NewTee(fileCore, consoleCore), zap.AddCaller())
	return logger, func() error {
		_ = logger.Sync()
		return rotator.Close()
	}
}
