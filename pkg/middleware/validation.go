// pkg/middleware/validation.go

package middleware

import (
	"net/http"
	"strings"

	"optihub/internal/api/httpjson"
)

// ValidateRequest rejects obviously malformed requests before handlers
// parse them: wrong content type, empty body, oversized body.
func ValidateRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			contentType := r.Header.Get("Content-Type")
			if contentType != "" && !strings.Contains(contentType, "application/json") {
				httpjson.WriteError(w, http.StatusBadRequest, "invalid Content-Type, expected application/json")
				return
			}

			if r.ContentLength == 0 {
				httpjson.WriteError(w, http.StatusBadRequest, "request body cannot be empty")
				return
			}
		}

		const maxSize = 1 << 20 // 1 MB
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)

		next.ServeHTTP(w, r)
	})
}
