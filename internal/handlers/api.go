// Package handlers implements the JSON API boundary. All input validation
// happens here, before any storage call; stores below this layer assume
// validated input and report storage faults only.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/cache"
)

// apiError is the body of every failure response. Fields carries per-field
// validation messages so a client can highlight the offending input;
// Message covers general failures that map to no single field.
type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// errorEnvelope wraps apiError under a stable top-level key.
type errorEnvelope struct {
	Error apiError `json:"error"`
}

// Error codes used across the API.
const (
	codeValidation = "validation"
	codeConflict   = "conflict"
	codeNotFound   = "not_found"
	codeBadRequest = "bad_request"
	codeInternal   = "internal"
)

// successResponse acknowledges a mutation. UpdatedID is present only on
// post updates.
type successResponse struct {
	Success   bool  `json:"success"`
	UpdatedID int64 `json:"updated_id,omitempty"`
}

// respondJSON serializes v and writes it with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// respondError writes a general (non-field-specific) error envelope.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}

// respondValidation writes a 422 with field-level messages.
func respondValidation(w http.ResponseWriter, fields map[string]string) {
	respondJSON(w, http.StatusUnprocessableEntity, errorEnvelope{
		Error: apiError{Code: codeValidation, Fields: fields},
	})
}

// writeCached writes a pre-serialized JSON body.
func writeCached(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// respondCacheable serializes v, stores the body in the read cache when one
// is configured, and writes it. Used by the read endpoints so cache hits
// and misses produce byte-identical responses.
func respondCacheable(w http.ResponseWriter, r *http.Request, rc *cache.ReadCache, key string, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode response failed", "error", err)
		respondError(w, http.StatusInternalServerError, codeInternal, "could not encode response")
		return
	}
	if rc != nil {
		rc.Set(r.Context(), key, body)
	}
	writeCached(w, status, body)
}

// decodeJSON parses the request body into dst. On malformed input it writes
// a 400 and returns false; the caller should return immediately.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "malformed JSON body")
		return false
	}
	return true
}

// pathID parses the {id} route parameter. On a non-integer id it writes a
// field-level validation error and returns false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondValidation(w, map[string]string{"id": "id must be an integer"})
		return 0, false
	}
	return id, true
}
