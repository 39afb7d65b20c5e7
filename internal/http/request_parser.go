// Package http provides the JSON API server and its handlers.
//
// This file implements utilities for parsing and validating request data.
// Bodies may be JSON objects or form-encoded; query parameters are parsed
// strictly so malformed numbers are rejected instead of defaulted.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"masjid/internal/core"
)

const maxBodyBytes = 1 << 20

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the request body once, capped at 1 MiB.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data. Errors wrap
// core.ErrInvalidInput.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		p.err = fmt.Errorf("%w: %s", core.ErrInvalidInput, strings.ToLower(msgInvalidBody))
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' || strings.Contains(p.contentType, "application/json") {
		p.jsonData = make(map[string]any)
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = fmt.Errorf("%w: body JSON tidak valid", core.ErrInvalidInput)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	if p.err != nil {
		p.err = fmt.Errorf("%w: %s", core.ErrInvalidInput, strings.ToLower(msgInvalidBody))
	}
	return p.err
}

// Has reports whether key is present with a non-empty value.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		v, ok := p.jsonData[key]
		if !ok || v == nil {
			return false
		}
		if s, isStr := v.(string); isStr {
			return strings.TrimSpace(s) != ""
		}
		return true
	}
	return p.formData != nil && strings.TrimSpace(p.formData.Get(key)) != ""
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// GetInt parses key as an integer. ok is false when the key is absent.
func (p *RequestBodyParser) GetInt(key string) (v int, ok bool, err error) {
	if !p.Has(key) {
		return 0, false, nil
	}
	n, err := strconv.Atoi(p.Get(key))
	if err != nil {
		return 0, true, fmt.Errorf("%w: %s harus berupa bilangan bulat", core.ErrInvalidInput, key)
	}
	return n, true, nil
}

// GetInt64 parses key as a 64-bit integer id.
func (p *RequestBodyParser) GetInt64(key string) (v int64, ok bool, err error) {
	if !p.Has(key) {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(p.Get(key), 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %s harus berupa bilangan bulat", core.ErrInvalidInput, key)
	}
	return n, true, nil
}

// GetAmount parses key as a Rupiah amount: a JSON integer or a string
// accepted by core.ParseRupiah.
func (p *RequestBodyParser) GetAmount(key string) (v int64, ok bool, err error) {
	if !p.Has(key) {
		return 0, false, nil
	}
	if num, isNum := p.jsonData[key].(json.Number); isNum {
		n, err := num.Int64()
		if err != nil || n < 0 {
			return 0, true, fmt.Errorf("%w (%s)", core.ErrInvalidAmount, key)
		}
		return n, true, nil
	}
	n, err := core.ParseRupiah(p.Get(key))
	if err != nil {
		return 0, true, fmt.Errorf("%w (%s)", err, key)
	}
	return n, true, nil
}

// GetBool parses key as a boolean ("true", "1", "on" and friends).
func (p *RequestBodyParser) GetBool(key string) (v bool, ok bool, err error) {
	if !p.Has(key) {
		return false, false, nil
	}
	s := strings.ToLower(p.Get(key))
	if s == "on" {
		return true, true, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, true, fmt.Errorf("%w: %s harus true atau false", core.ErrInvalidInput, key)
	}
	return b, true, nil
}

// GetIntList parses key as a list of integers. JSON arrays, repeated form
// fields and comma separated strings are accepted.
func (p *RequestBodyParser) GetIntList(key string) ([]int, error) {
	var raw []string
	switch {
	case p.jsonData != nil:
		switch v := p.jsonData[key].(type) {
		case nil:
		case []any:
			for _, item := range v {
				raw = append(raw, stringValue(item))
			}
		default:
			raw = strings.Split(stringValue(v), ",")
		}
	case p.formData != nil:
		for _, v := range p.formData[key] {
			raw = append(raw, strings.Split(v, ",")...)
		}
	}

	out := make([]int, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s harus berisi bilangan bulat", core.ErrInvalidInput, key)
		}
		out = append(out, n)
	}
	return out, nil
}

// GetMonthCells collects month amounts given under their column keys
// ("jan" ... "des").
func (p *RequestBodyParser) GetMonthCells() (map[int]int64, error) {
	cells := make(map[int]int64)
	for i, key := range core.MonthKeys() {
		v, ok, err := p.GetAmount(key.String())
		if err != nil {
			return nil, err
		}
		if ok {
			cells[i+1] = v
		}
	}
	return cells, nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// queryInt parses an optional integer query parameter. A present but
// malformed value is an error, never a silent default.
func queryInt(q url.Values, key string) (int, bool, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, true, fmt.Errorf("%w: parameter %s harus berupa bilangan bulat", core.ErrInvalidInput, key)
	}
	return n, true, nil
}

// requireQueryInt is queryInt for mandatory parameters.
func requireQueryInt(q url.Values, key string) (int, error) {
	n, ok, err := queryInt(q, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: parameter %s wajib diisi", core.ErrInvalidInput, key)
	}
	return n, nil
}

var errMissingField = errors.New("wajib diisi")

// requireField wraps a missing body field as invalid input.
func requireField(key string) error {
	return fmt.Errorf("%w: %s %w", core.ErrInvalidInput, key, errMissingField)
}
