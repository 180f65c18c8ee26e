// Package logger is a thin layer over zap that hands out named sugared loggers
// sharing one JSON core, plus context helpers that attach the request id.
package logger

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

// Logger is a named sugared logger.
type Logger struct {
	*zap.SugaredLogger
}

var (
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	baseOnce sync.Once
	base     *zap.Logger
)

func root() *zap.Logger {
	baseOnce.Do(func() {
		encoderConfig := zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.Lock(os.Stdout), level)
		base = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	})
	return base
}

// SetLevel changes the level of every logger handed out by this package.
func SetLevel(lvl string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(lvl)); err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}

// MustNamed returns a logger with the given name.
func MustNamed(name string) *Logger {
	return &Logger{SugaredLogger: root().Named(name).Sugar()}
}

// Unwrap exposes the underlying sugared logger, e.g. to build an fxevent logger.
func (l *Logger) Unwrap() *zap.SugaredLogger {
	return l.SugaredLogger
}

func (l *Logger) Reflect(key string, value any) zap.Field {
	return zap.Reflect(key, value)
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

var ctxLogger = sync.OnceValue(func() *zap.SugaredLogger {
	return root().WithOptions(zap.AddCallerSkip(2)).Sugar()
})

func Logw(ctx context.Context, lvl Level, msg string, keysAndValues ...any) {
	if id := RequestIDFromContext(ctx); id != "" {
		keysAndValues = append(keysAndValues, "request_id", id)
	}
	ctxLogger().Logw(lvl, msg, keysAndValues...)
}

func Debugw(ctx context.Context, msg string, keysAndValues ...any) {
	Logw(ctx, DebugLevel, msg, keysAndValues...)
}

func Infow(ctx context.Context, msg string, keysAndValues ...any) {
	Logw(ctx, InfoLevel, msg, keysAndValues...)
}

func Warnw(ctx context.Context, msg string, keysAndValues ...any) {
	Logw(ctx, WarnLevel, msg, keysAndValues...)
}

func Errorw(ctx context.Context, msg string, keysAndValues ...any) {
	Logw(ctx, ErrorLevel, msg, keysAndValues...)
}
