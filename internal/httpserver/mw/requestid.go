package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const maxRequestIDLen = 200

// RequestID reuses the caller's X-Request-Id or generates a UUIDv4, stores it
// where middleware.GetReqID finds it and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ensureRequestID(r)

		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ensureRequestID returns the caller's id when it is usable. Otherwise it
// generates one and writes it back on the request, so later stages agree.
// Ids longer than maxRequestIDLen are replaced.
func ensureRequestID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(middleware.RequestIDHeader))
	if id == "" || len(id) > maxRequestIDLen {
		id = uuid.NewString()
		r.Header.Set(middleware.RequestIDHeader, id)
	}
	return id
}
