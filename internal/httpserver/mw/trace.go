package mw

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/conexus/internal/logger"
)

var sensitiveHeaders = map[string]bool{
	"Authorization":       true,
	"Proxy-Authorization": true,
	"Cookie":              true,
	"Set-Cookie":          true,
}

const redacted = "[REDACTED]"

// statusWriter captures status code and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	// Ensure status is set if handler wrote body without calling WriteHeader.
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Trace opens a span per request: "request started" when it enters and
// "request finished" with status and latency once the handler returns.
// Credentials in headers are never logged.
func Trace(log logger.Logger, includeHeaders bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			span := log.With(
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			)

			started := []logger.Field{
				logger.String("remote_ip", hostNoPort(r.RemoteAddr)),
				logger.String("user_agent", r.UserAgent()),
			}
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				started = append(started, logger.String("forwarded_for", firstForwardedFor(xff)))
			}
			if includeHeaders {
				started = append(started, logger.Any("headers", redactHeaders(r.Header)))
			}
			span.Debug("request started", started...)

			ww := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r)

			if ww.status == 0 {
				ww.status = http.StatusOK
			}
			finished := []logger.Field{
				logger.Int("status", ww.status),
				logger.Int("bytes", ww.bytes),
				logger.Duration("latency", time.Since(start)),
			}
			if includeHeaders {
				finished = append(finished, logger.Any("response_headers", redactHeaders(w.Header())))
			}

			if ww.status >= http.StatusInternalServerError {
				span.Error("request finished", finished...)
				return
			}
			span.Info("request finished", finished...)
		})
	}
}

// redactHeaders flattens h for logging with credential values masked.
func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if sensitiveHeaders[http.CanonicalHeaderKey(k)] {
			out[k] = redacted
			continue
		}
		out[k] = strings.Join(v, ", ")
	}
	return out
}
