// Package logger builds the zap logger shared by the HTTP server, the gRPC
// server and the resolution worker.
package logger

import (
	"go.uber.org/zap"
)

type LoggerI interface {
	Info(msg string, keysAndValues ...interface{})
	Init(lvl string) error
}

type Logger struct {
	Log *zap.Logger
}

// New returns a no-op logger until Init is called.
func New() *Logger {
	return &Logger{
		Log: zap.NewNop(),
	}
}

// Init swaps the no-op logger for a production JSON logger at level.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "ts"
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	l.Log = zl.Named("bearlink")
	return nil
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Log.Sugar().Infow(msg, keysAndValues...)
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func (l *Logger) Sync() {
	_ = l.Log.Sync()
}
