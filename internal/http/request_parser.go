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

	"shootbook/internal/analytics"
)

// Request bodies above this size are rejected.
const maxBodyBytes = 1 << 20

// Follow-up advance used when the days parameter is omitted.
const defaultAdvanceDays = 7

// errBadRequest marks malformed requests: undecodable bodies and
// unparsable query parameters.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// DecodeJSONBody decodes a single JSON object from the request body into dst.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is empty")
		}
		return badRequest("invalid JSON body: %v", err)
	}
	if dec.More() {
		return badRequest("request body must contain a single JSON object")
	}
	return nil
}

// ParseWindowParam reads a revenue window in months. A missing value
// yields def; the value itself is validated by the analytics package.
func ParseWindowParam(query url.Values, key string, def analytics.Window) (analytics.Window, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("%s must be a number of months", key)
	}
	return analytics.Window(n), nil
}

// ParseDaysParam reads the follow-up advance, defaulting to a week.
func ParseDaysParam(query url.Values) (int, error) {
	raw := strings.TrimSpace(query.Get("days"))
	if raw == "" {
		return defaultAdvanceDays, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("days must be an integer")
	}
	return n, nil
}

// ParseConfirmParam reports whether the caller confirmed a destructive action.
func ParseConfirmParam(query url.Values) bool {
	switch strings.ToLower(strings.TrimSpace(query.Get("confirm"))) {
	case "1", "true", "yes":
		return true
	}
	return false
}
