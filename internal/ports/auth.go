package ports

import (
	"crypto/subtle"
	"net/http"
)

const apiKeyHeader = "x-api-key"

// NewAPIKeyMiddleware gates access behind a single shared secret. There
// is no per-key identity; every caller presents the same key.
func NewAPIKeyMiddleware(apiKey string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(apiKeyHeader)
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"error":"Invalid or missing API key"}`))
				return
			}

			next(w, r)
		}
	}
}
