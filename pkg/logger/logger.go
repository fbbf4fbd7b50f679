package logger

import (
	"context"
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const loggerKey ctxKey = "requestLogger"

var fallback = zap.NewNop().Sugar()

// Run builds the process-wide sugared logger with the given level
// ("debug", "info", "warn", "error", "fatal").
func Run(level string) *zap.SugaredLogger {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.Set(level); err != nil {
			log.Printf("logger: unknown level %q, falling back to info", level)
			lvl = zapcore.InfoLevel
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	zl, err := cfg.Build()
	if err != nil {
		log.Fatalln("logger: can't build zap logger:", err)
	}
	return zl.Sugar()
}

// Pin attaches a request-scoped logger to the context.
func Pin(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Log returns the request-scoped logger pinned by the logging middleware.
// Outside of a request (tests, startup) it returns a no-op logger so call
// sites don't have to care.
func Log(ctx context.Context) *zap.SugaredLogger {
	l, ok := ctx.Value(loggerKey).(*zap.SugaredLogger)
	if !ok || l == nil {
		return fallback
	}
	return l
}
