package logging

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey string

// TraceIDKey is the context key the trace middleware stores the request trace id under.
const TraceIDKey contextKey = "trace_id"

// Loggers start as no-ops so packages can log before InitLogger runs (tests, CLI).
var (
	AppLogger     = zap.NewNop()
	RequestLogger = zap.NewNop()
	TimerLogger   = zap.NewNop()
	ErrorLogger   = zap.NewNop()
)

// ensureLogsDir makes sure the logs folder exists
func ensureLogsDir(dir string) error {
	return os.MkdirAll(dir, os.ModePerm)
}

func rotatingCore(encoder zapcore.Encoder, dir, name string, maxSize, maxAge int, level zapcore.Level) zapcore.Core {
	return zapcore.NewCore(encoder,
		zapcore.AddSync(&lumberjack.Logger{
			Filename: filepath.Join(dir, name), MaxSize: maxSize, MaxAge: maxAge, Compress: true,
		}),
		level,
	)
}

// InitLogger points the package loggers at rotating files under dir.
func InitLogger(dir string) error {
	if dir == "" {
		dir = "./logs"
	}
	if err := ensureLogsDir(dir); err != nil {
		return err
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	// app.log also goes to stdout so container logs show startup and shutdown
	stdout := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stdout), zap.InfoLevel)
	AppLogger = zap.New(zapcore.NewTee(
		rotatingCore(encoder, dir, "app.log", 100, 28, zap.InfoLevel),
		stdout,
	))
	RequestLogger = zap.New(rotatingCore(encoder, dir, "request.log", 50, 7, zap.InfoLevel))
	TimerLogger = zap.New(rotatingCore(encoder, dir, "timer.log", 50, 7, zap.InfoLevel))
	ErrorLogger = zap.New(zapcore.NewTee(
		rotatingCore(encoder, dir, "error.log", 100, 30, zap.ErrorLevel),
		stdout,
	))
	return nil
}

// Sync flushes every logger. Errors from syncing stdout are ignored.
func Sync() {
	for _, l := range []*zap.Logger{AppLogger, RequestLogger, TimerLogger, ErrorLogger} {
		_ = l.Sync()
	}
}

// TraceID returns the trace id stored on ctx, or "".
func TraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// LogDuration lets you do: defer logging.LogDuration(ctx, "FuncName")()
func LogDuration(ctx context.Context, name string) func() {
	start := time.Now()
	traceID := TraceID(ctx)

	return func() {
		duration := time.Since(start).Milliseconds()
		fields := []zap.Field{
			zap.String("func", name),
			zap.Int64("duration_ms", duration),
		}
		if traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}

		// write ONLY to timer.log
		TimerLogger.Info("Function timed", fields...)
	}
}
