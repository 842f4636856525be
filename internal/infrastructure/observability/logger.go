package observability

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type loggerFieldsKey struct{}

// InitLogger initializes the global zerolog logger. Development gets a
// console writer, every other environment JSON lines.
func InitLogger(serviceName, env, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().
			Str("service", serviceName).
			Logger()
		return
	}

	log.Logger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger()
}

// WithUserID attaches the authenticated user to loggers created from ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, loggerFieldsKey{}, userID)
}

// LoggerFromContext returns a logger carrying trace and user context
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	lc := log.With()

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		lc = lc.
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String())
	}
	if userID, ok := ctx.Value(loggerFieldsKey{}).(string); ok && userID != "" {
		lc = lc.Str("user_id", userID)
	}

	logger := lc.Logger()
	return &logger
}
