// Package http provides the JSON API server and its handlers.
//
// This file implements the response envelope. Every reply has the shape
// {"success": true, "data": ...} or {"success": false, "error": "..."}.

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"masjid/internal/core"
	applog "masjid/internal/log"
)

// Envelope is the uniform JSON body of every response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSONResponseBuilder provides a fluent API for building envelope responses.
type JSONResponseBuilder struct {
	statusCode int
	envelope   Envelope
	headers    map[string]string
}

// NewJSONResponse creates a successful response with a 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		envelope:   Envelope{Success: true},
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Data sets the payload of a successful response.
func (b *JSONResponseBuilder) Data(v any) *JSONResponseBuilder {
	b.envelope.Data = v
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if err := json.NewEncoder(w).Encode(b.envelope); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// ErrorResponse creates a failed envelope with the given status and message.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	b := NewJSONResponse().Status(statusCode)
	b.envelope = Envelope{Success: false, Error: message}
	return b
}

// InternalServerError creates a 500 response. The message is always the
// generic one; details go to the log only.
func InternalServerError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, msgInternal)
}

const (
	msgInternal      = "Terjadi kesalahan pada server, silakan coba lagi nanti"
	msgForbidden     = "Akses ditolak: operasi ini memerlukan hak tulis"
	msgInvalidBody   = "Format permintaan tidak valid"
	msgTooManyWrites = "Terlalu banyak permintaan, coba lagi nanti"
)

// statusFor maps a domain error to its HTTP status and the message shown to
// the client.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest, clientMessage(err, core.ErrInvalidInput)
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, clientMessage(err, core.ErrNotFound)
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden, msgForbidden
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// clientMessage strips operation prefixes added while wrapping so only the
// domain message from the sentinel onwards reaches the client.
func clientMessage(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i > 0 {
		msg = msg[i:]
	}
	return msg
}

// writeError logs err and writes the matching failure envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	status, msg := statusFor(err)
	logger := applog.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed",
			applog.NewFields().
				WithError(err).
				WithOperation(operation).
				WithComponent(applog.ComponentHTTP).
				WithErrorType(applog.ErrorTypeInternal).
				ToSlice()...)
	} else {
		logger.DebugContext(r.Context(), "Request rejected",
			"error", err, "status_code", status, "operation", operation)
	}
	ErrorResponse(status, msg).Write(w)
}

// writeData writes a 200 envelope carrying data.
func writeData(w http.ResponseWriter, data any) {
	NewJSONResponse().Data(data).Write(w)
}

// writeCreated writes a 201 envelope carrying data.
func writeCreated(w http.ResponseWriter, data any) {
	NewJSONResponse().Status(http.StatusCreated).Data(data).Write(w)
}
