package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logging interface used across the service
type Logger interface {
	Info(ctx context.Context, message string, fields map[string]interface{})
	Error(ctx context.Context, message string, err error, fields map[string]interface{})
	Warn(ctx context.Context, message string, fields map[string]interface{})
	Debug(ctx context.Context, message string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
}

type contextKey string

// CorrelationIDKey holds the request correlation id in a context
const CorrelationIDKey contextKey = "correlation_id"

// WithCorrelationID returns a context carrying the correlation id
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// CorrelationID returns the correlation id stored in ctx, or ""
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}

type structuredLogger struct {
	logger *logrus.Logger
	fields map[string]interface{}
}

type LoggerConfig struct {
	Level               string
	Format              string
	CorrelationIDHeader string
	EnableRequestLog    bool
	ServiceName         string
	Output              io.Writer
}

func NewStructuredLogger(config LoggerConfig) Logger {
	base := logrus.New()
	if level, err := logrus.ParseLevel(config.Level); err == nil {
		base.SetLevel(level)
	} else {
		base.SetLevel(logrus.InfoLevel)
	}

	var formatter logrus.Formatter = &logrus.TextFormatter{TimestampFormat: time.RFC3339Nano, FullTimestamp: true}
	if config.Format == "json" {
		formatter = &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	}
	base.SetFormatter(formatter)

	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	base.SetOutput(out)

	return &structuredLogger{
		logger: base,
		fields: map[string]interface{}{"service": config.ServiceName},
	}
}

func (l *structuredLogger) Info(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, nil, fields).Info(message)
}

func (l *structuredLogger) Error(ctx context.Context, message string, err error, fields map[string]interface{}) {
	l.entry(ctx, err, fields).Error(message)
}

func (l *structuredLogger) Warn(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, nil, fields).Warn(message)
}

func (l *structuredLogger) Debug(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, nil, fields).Debug(message)
}

func (l *structuredLogger) WithFields(fields map[string]interface{}) Logger {
	return &structuredLogger{logger: l.logger, fields: merge(l.fields, fields)}
}

func merge(base, extra map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(extra)+3)
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func (l *structuredLogger) entry(ctx context.Context, err error, fields map[string]interface{}) *logrus.Entry {
	data := logrus.Fields(merge(l.fields, fields))
	if cid := CorrelationID(ctx); cid != "" {
		data["correlation_id"] = cid
	}
	if err != nil {
		data["error"] = err.Error()
	}
	// skip entry, the level method and the caller's wrapper
	if pc, file, line, ok := runtime.Caller(2); ok {
		data["caller"] = fmt.Sprintf("%s:%d %s", file, line, runtime.FuncForPC(pc).Name())
	}
	return l.logger.WithFields(data)
}
