package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func bufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{Component: ComponentApp, Handler: slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := bufferLogger(&buf).WithComponent(ComponentLedger)
	if l.Component() != ComponentLedger {
		t.Fatalf("Component() = %q", l.Component())
	}
	l.Info("hello")
	if !strings.Contains(buf.String(), "component=ledger") {
		t.Errorf("log line missing component: %s", buf.String())
	}
}

func TestLogPartialFailure(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(bufferLogger(&buf))

	fields := NewFields().WithContribution(7, 2024, []int{5}, 50000, "skip")
	sl.LogPartialFailure(context.Background(), "audit failed", errors.New("disk full"), ComponentLedger, OpAudit, fields)

	out := buf.String()
	for _, want := range []string{"level=WARN", "error_type=" + ErrorTypePartialFailure, "operation=audit", "donor_id=7", "disk full"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
}

func TestMiddlewareCarriesLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf)

	tests := []struct {
		name      string
		requestID func(*http.Request) string
		want      string
		wantNot   string
	}{
		{"request id attached", func(*http.Request) string { return "req-1" }, "request_id=req-1", ""},
		{"empty id omitted", func(*http.Request) string { return "" }, "msg=inside", "request_id"},
		{"nil extractor", nil, "msg=inside", "request_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			h := Middleware(logger, tt.requestID)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				FromContext(r.Context()).InfoContext(r.Context(), "inside")
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log line missing %q: %s", tt.want, buf.String())
			}
			if tt.wantNot != "" && strings.Contains(buf.String(), tt.wantNot) {
				t.Errorf("log line should not contain %q: %s", tt.wantNot, buf.String())
			}
		})
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(bufferLogger(&buf))

	sl.LogError(context.Background(), "publisher panicked", errors.New("nil channel"), ErrorTypeInternal, ComponentAMQP, OpPublish,
		NewFields().With(FieldTransactionID, int64(12)))

	out := buf.String()
	for _, want := range []string{"level=ERROR", "error_type=" + ErrorTypeInternal, "operation=" + OpPublish, "transaction_id=12", "nil channel"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
}

func TestFromContextDefault(t *testing.T) {
	if l := FromContext(context.Background()); l == nil || l.Component() != "unknown" {
		t.Errorf("FromContext without logger = %+v", l)
	}
}
