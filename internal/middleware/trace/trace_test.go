package trace

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestMiddleware_AssignsRequestID(t *testing.T) {
	var seen string
	mw := NewMiddleware(nil, nil)
	h := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if seen == "" {
		t.Fatal("request id missing from context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("request id %q is not a uuid: %v", seen, err)
	}
	if got := rec.Header().Get(HeaderRequestID); got != seen {
		t.Errorf("response header = %q, want %q", got, seen)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestMiddleware_IncomingRequestID(t *testing.T) {
	valid := uuid.NewString()

	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{"valid uuid kept", valid, true},
		{"garbage replaced", "not-a-uuid<script>", false},
		{"empty generated", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			mw := NewMiddleware(nil, nil)
			h := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(HeaderRequestID, tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if (seen == tt.header) != tt.wantSame {
				t.Errorf("request id = %q, header %q, wantSame %v", seen, tt.header, tt.wantSame)
			}
			if seen == "" {
				t.Error("request id should never be empty")
			}
		})
	}
}

func TestMiddleware_Metrics(t *testing.T) {
	mw := NewMiddleware(func(*http.Request) string { return "127.0.0.1" }, nil)
	h := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))

	for _, p := range []string{"/a", "/boom", "/b"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	m := mw.GetMetrics()
	if m.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d, want 3", m.TotalRequests)
	}
	if m.ServerErrors != 1 {
		t.Errorf("ServerErrors = %d, want 1", m.ServerErrors)
	}
	if m.AverageResponseTime < 0 {
		t.Errorf("AverageResponseTime = %d", m.AverageResponseTime)
	}

	mw.totalMicros, mw.completed = 900, 3
	if got := mw.GetMetrics().AverageResponseTime; got != 300 {
		t.Errorf("AverageResponseTime = %d, want 300", got)
	}
}
