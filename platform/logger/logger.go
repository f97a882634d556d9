// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// ActorKey is the context key for the acting party (buyer/supplier/admin/system)
	ActorKey contextKey = "actor"
	// TraceIDKey is the context key for trace ID
	TraceIDKey contextKey = "trace_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports request_id, actor, and trace_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = newLogger.WithRequestID(requestID)
	}

	if actor, ok := ctx.Value(ActorKey).(string); ok && actor != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("actor", actor)),
		}
	}

	if traceID, ok := ctx.Value(TraceIDKey).(string); ok && traceID != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("trace_id", traceID)),
		}
	}

	return newLogger
}

// WithRequestID returns a logger with request ID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("request_id", requestID)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// EngagementTransition logs a lifecycle move for one engagement.
func (l *Logger) EngagementTransition(engagementID, from, to, actor string) {
	l.Info("engagement_transition",
		slog.String("engagement_id", engagementID),
		slog.String("from", from),
		slog.String("to", to),
		slog.String("actor", actor),
	)
}

// TransitionRejected logs a lifecycle move the state machine refused.
func (l *Logger) TransitionRejected(engagementID, from, to, actor, reason string) {
	l.Warn("engagement_transition_rejected",
		slog.String("engagement_id", engagementID),
		slog.String("from", from),
		slog.String("to", to),
		slog.String("actor", actor),
		slog.String("reason", reason),
	)
}

// ClearingRun logs one matching pass over a buyer need.
func (l *Logger) ClearingRun(needID string, candidates, matches int, durationMs float64) {
	l.Info("clearing_run",
		slog.String("need_id", needID),
		slog.Int("candidates", candidates),
		slog.Int("matches", matches),
		slog.Float64("duration_ms", durationMs),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}

// SMSEvent logs inbound/outbound SMS traffic without the message body.
func (l *Logger) SMSEvent(direction, phone string, ok bool) {
	if ok {
		l.Info("sms_event", slog.String("direction", direction), slog.String("phone", phone))
		return
	}
	l.Warn("sms_event_failed", slog.String("direction", direction), slog.String("phone", phone))
}
