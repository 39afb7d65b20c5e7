package http

import (
	"net/http"
	"strconv"
	"strings"

	"masjid/internal/core"
)

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.ErrInvalidID
	}
	return id, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// optString returns a pointer to the sanitized value when key is present.
func optString(p *RequestBodyParser, key string) *string {
	if !p.Has(key) {
		if p.jsonData != nil {
			// explicit empty strings still clear optional text fields
			if v, ok := p.jsonData[key].(string); ok {
				s := sanitizeInput(v)
				return &s
			}
		}
		return nil
	}
	s := p.Get(key)
	return &s
}

func optInt(p *RequestBodyParser, key string) (*int, error) {
	v, ok, err := p.GetInt(key)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func optInt64Amount(p *RequestBodyParser, key string) (*int64, error) {
	v, ok, err := p.GetAmount(key)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func optBool(p *RequestBodyParser, key string) (*bool, error) {
	v, ok, err := p.GetBool(key)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}
