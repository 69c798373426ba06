package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ParseOptionalString returns a pointer to the query parameter value, or nil if it is absent or empty.
func ParseOptionalString(r *http.Request, key string) *string {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	return &value
}

// ParseOptionalInt64 parses an optional integer query parameter.
// An absent or empty parameter yields nil. A malformed one is answered with 400 and ok is false.
func ParseOptionalInt64(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string) (value *int64, ok bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, raw))
		return nil, false
	}
	return &v, true
}

// ParsePathParam returns the chi URL parameter key with percent-escapes decoded.
// chi routes on the escaped path when the request has one, so an encoded "/" arrives as %2F.
// A malformed escape is answered with 400 and ok is false.
func ParsePathParam(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string) (value string, ok bool) {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw, true
	}
	value, err := url.PathUnescape(raw)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %s", key, raw))
		return "", false
	}
	return value, true
}
