package log

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Field = zap.Field

var (
	String     = zap.String
	Int        = zap.Int
	Uint64     = zap.Uint64
	Duration   = zap.Duration
	ErrorField = zap.Error
)

type Logger struct {
	base *zap.Logger
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = &Logger{base: zap.NewNop()}
)

// New builds a logger writing to w. format is "console" or "json".
func New(w io.Writer, level, format string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console", "text":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), lvl)
	return &Logger{base: zap.New(core)}, nil
}

func FromZap(base *zap.Logger) *Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &Logger{base: base}
}

func Nop() *Logger {
	return &Logger{base: zap.NewNop()}
}

// Default is the process logger used by components built without one. It discards everything
// until ResetDefault installs the configured logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

func ResetDefault(l *Logger) {
	if l == nil {
		l = Nop()
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{base: l.base.Named(name)}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.base.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.base.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.base.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.base.Error(msg, fields...) }
