package mw

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/MrSnakeDoc/conexus/internal/httpserver/respond"
)

var (
	errUnsupportedEncoding = errors.New("unsupported content encoding")
	errBodyTooLarge        = errors.New("request body too large")
)

// Decompress undoes the request Content-Encoding before the handler runs.
// The whole body is decoded up front and capped at maxBytes, so a corrupt
// payload is answered here with 400 and never reaches a handler.
func Decompress(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			encodings := parseContentEncoding(r.Header.Get("Content-Encoding"))
			if len(encodings) == 0 || r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			body, err := decodeBody(r.Body, encodings, maxBytes)
			_ = r.Body.Close()
			if err != nil {
				// rejected before the request id stage runs
				w.Header().Set(middleware.RequestIDHeader, ensureRequestID(r))
			}
			switch {
			case errors.Is(err, errUnsupportedEncoding):
				respond.Error(w, http.StatusUnsupportedMediaType, respond.CodeUnsupportedEncoding, err.Error())
				return
			case errors.Is(err, errBodyTooLarge):
				respond.Error(w, http.StatusRequestEntityTooLarge, respond.CodeBodyTooLarge, err.Error())
				return
			case err != nil:
				respond.Error(w, http.StatusBadRequest, respond.CodeMalformedBody, err.Error())
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))
			r.Header.Del("Content-Encoding")
			r.Header.Set("Content-Length", strconv.Itoa(len(body)))

			next.ServeHTTP(w, r)
		})
	}
}

// parseContentEncoding returns the codings in the order they were applied,
// identity removed.
func parseContentEncoding(h string) []string {
	if h == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(h, ",") {
		e := strings.ToLower(strings.TrimSpace(part))
		if e == "" || e == "identity" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func decodeBody(body io.Reader, encodings []string, maxBytes int64) ([]byte, error) {
	for _, e := range encodings {
		if !supportedEncoding(e) {
			return nil, fmt.Errorf("%w: %s", errUnsupportedEncoding, e)
		}
	}

	// compressed input is capped too
	src := &cappedReader{r: body, remaining: maxBytes}

	var closers []func()
	defer func() {
		for _, c := range closers {
			c()
		}
	}()

	// last applied coding is undone first
	var r io.Reader = src
	for i := len(encodings) - 1; i >= 0; i-- {
		dec, closeFn, err := newDecoder(encodings[i], r)
		if err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", encodings[i], err)
		}
		closers = append(closers, closeFn)
		r = dec
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", strings.Join(encodings, ", "), err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, maxBytes)
	}
	return data, nil
}

func supportedEncoding(e string) bool {
	switch e {
	case "gzip", "x-gzip", "deflate", "zstd":
		return true
	}
	return false
}

func newDecoder(encoding string, r io.Reader) (io.Reader, func(), error) {
	switch encoding {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { _ = zr.Close() }, nil
	case "deflate":
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { _ = zr.Close() }, nil
	case "zstd":
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	}
	return nil, nil, fmt.Errorf("%w: %s", errUnsupportedEncoding, encoding)
}

// cappedReader fails with errBodyTooLarge once more than remaining bytes
// have been read.
type cappedReader struct {
	r         io.Reader
	remaining int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		return 0, errBodyTooLarge
	}
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return n, errBodyTooLarge
	}
	return n, err
}
