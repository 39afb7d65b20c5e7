package log

import (
	"context"
	"log/slog"
	"net/http"
)

// StructuredLogger writes the fixed-shape events shared by the HTTP layer,
// the ledger service and the event publisher.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

func (sl *StructuredLogger) emit(ctx context.Context, level slog.Level, msg string, fields LogFields) {
	sl.logger.Logger.Log(ctx, level, msg, fields.ToSlice()...)
}

// LogHTTPStart records an incoming request.
func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, clientIP string) {
	sl.emit(ctx, slog.LevelInfo, "HTTP request started", NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent(), r.Referer()).
		WithClientIP(clientIP).
		WithComponent(ComponentHTTP))
}

// LogHTTPEnd records the response; 4xx log at warn, 5xx at error.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}
	sl.emit(ctx, level, "HTTP request completed", NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", "").
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithClientIP(clientIP).
		WithComponent(ComponentHTTP))
}

func (sl *StructuredLogger) LogReconciled(ctx context.Context, donorID int64, tahun int, months []int, amount int64, mode string, records int) {
	sl.emit(ctx, slog.LevelInfo, "Contribution reconciled", NewFields().
		WithContribution(donorID, tahun, months, amount, mode).
		WithOperation(OpReconcile).
		WithComponent(ComponentLedger).
		With(FieldRecordCount, records))
}

// LogPartialFailure records a side effect that failed after the ledger
// write committed. The caller still reports success.
func (sl *StructuredLogger) LogPartialFailure(ctx context.Context, msg string, err error, component, operation string, fields LogFields) {
	sl.emit(ctx, slog.LevelWarn, msg, fields.
		WithError(err).
		WithErrorType(ErrorTypePartialFailure).
		WithOperation(operation).
		WithComponent(component))
}

// LogError records a failure at error level. kind is one of the ErrorType
// constants.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, kind, component, operation string, fields LogFields) {
	sl.emit(ctx, slog.LevelError, msg, fields.
		WithError(err).
		WithErrorType(kind).
		WithOperation(operation).
		WithComponent(component))
}
