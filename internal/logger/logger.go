// Package logger wraps the zap structured logger used across the locker.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger holds the process logger. Log is a no-op logger until Init is
// called, so it is always safe to use.
type Logger struct {
	Log *zap.Logger
	out zapcore.WriteSyncer
}

// New returns a Logger writing to stderr.
func New() *Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter returns a Logger writing to w.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{Log: zap.NewNop(), out: zapcore.AddSync(w)}
}

// Init builds the logger at the given level ("debug", "info", "warn",
// "error"). Level names are case-insensitive.
func (l *Logger) Init(level string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), l.out, lvl)
	l.Log = zap.New(core).Named("xlocker")
	return nil
}
