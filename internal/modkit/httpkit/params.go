package httpkit

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	perrs "bluebird/internal/platform/errors"

	"github.com/go-chi/chi/v5"
)

// Param returns a path parameter
func Param(r *http.Request, name string) string { return chi.URLParam(r, name) }

// ParamInt64 parses a positive integer path parameter
func ParamInt64(r *http.Request, name string) (int64, error) {
	n, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || n <= 0 {
		return 0, perrs.WithField(perrs.InvalidArgf("%s must be a positive integer", name), name)
	}
	return n, nil
}

// QueryInt parses an optional integer query parameter
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, perrs.WithField(perrs.InvalidArgf("%s must be an integer", name), name)
	}
	return n, nil
}

// QueryTime parses an optional RFC 3339 timestamp or a yyyy-mm-dd date in loc
func QueryTime(r *http.Request, name string, loc *time.Location) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return nil, perrs.WithField(perrs.InvalidArgf("%s must be RFC 3339 or yyyy-mm-dd", name), name)
	}
	return &t, nil
}
