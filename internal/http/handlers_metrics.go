package http

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// handleMetrics writes request, rate limit and detector counters in the
// Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.tracer.GetMetrics()
	limitMetrics := s.limiter.GetMetrics()
	securityMetrics := s.detector.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	writeMetric(w, "http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	writeMetric(w, "http_server_errors_total", "counter", "Responses with a 5xx status", traceMetrics.ServerErrors)
	writeMetric(w, "http_response_time_avg_microseconds", "gauge", "Mean response time of completed requests", traceMetrics.AverageResponseTime)
	writeMetric(w, "write_rate_limited_total", "counter", "Write requests rejected by the rate limiter", limitMetrics.Rejected)
	writeMetric(w, "write_rate_limit_clients", "gauge", "Clients tracked by the rate limiter", limitMetrics.ClientCount)
	writeMetric(w, "security_suspicious_requests_total", "counter", "Requests matching a suspicious pattern", securityMetrics.SuspiciousRequests)
	writeMetric(w, "uptime_seconds", "gauge", "Seconds since the server started", int64(time.Since(s.started).Seconds()))
}

func writeMetric(w io.Writer, name, kind, help string, value int64) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %d\n\n", name, help, name, kind, name, value)
}
