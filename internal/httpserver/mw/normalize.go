package mw

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Normalize drops trailing slashes before routing, so /bookmarks/ and
// /bookmarks// reach the /bookmarks route. The root path is kept as is.
// Inside a chi router only the routing path changes; r.URL is left intact.
func Normalize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())

		path := r.URL.Path
		if rctx != nil && rctx.RoutePath != "" {
			path = rctx.RoutePath
		}

		if len(path) > 1 && strings.HasSuffix(path, "/") {
			trimmed := strings.TrimRight(path, "/")
			if trimmed == "" {
				trimmed = "/"
			}
			if rctx != nil {
				rctx.RoutePath = trimmed
			} else {
				r.URL.Path = trimmed
			}
		}

		next.ServeHTTP(w, r)
	})
}
