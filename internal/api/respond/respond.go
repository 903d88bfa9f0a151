// Package respond provides shared JSON response utilities for API handlers.
//
// Every body uses the same envelope: {"success": true, "data": ...} on
// success and {"success": false, "error": "..."} on failure.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pokevault/catalog-api/internal/query"
)

// Envelope is the standard response shape.
type Envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       interface{}       `json:"data,omitempty"`
	Count      *int              `json:"count,omitempty"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// ErrorResponse documents the failure shape for swagger.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Card not found"`
}

// OK writes {"success": true, "data": v}.
func OK(w http.ResponseWriter, v interface{}) {
	WriteJSONObject(w, http.StatusOK, Envelope{Success: true, Data: v})
}

// Paged writes a listing with its pagination block.
func Paged(w http.ResponseWriter, v interface{}, p query.Pagination) {
	WriteJSONObject(w, http.StatusOK, Envelope{Success: true, Data: v, Pagination: &p})
}

// Counted writes a listing with its length.
func Counted(w http.ResponseWriter, v interface{}, n int) {
	WriteJSONObject(w, http.StatusOK, Envelope{Success: true, Data: v, Count: &n})
}

// Error sends {"success": false, "error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	WriteJSONObject(w, status, Envelope{Success: false, Error: message})
}

// Marshal encodes a success envelope for caching.
func Marshal(v interface{}) ([]byte, error) {
	b, err := json.Marshal(Envelope{Success: true, Data: v})
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return b, nil
}

// WriteJSON writes raw JSON bytes to the response with cache and ETag headers.
func WriteJSON(w http.ResponseWriter, data []byte, etag string, ttl time.Duration, cacheHit bool) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Encoding")
	setCacheHeaders(w, ttl, cacheHit)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// WriteNotModified sends a 304 with the matching ETag.
func WriteNotModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// WriteJSONObject marshals a Go value to JSON and writes it.
func WriteJSONObject(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func setCacheHeaders(w http.ResponseWriter, ttl time.Duration, cacheHit bool) {
	maxAge := int(ttl.Seconds())
	swr := maxAge / 2
	if cacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAge, swr))
}
