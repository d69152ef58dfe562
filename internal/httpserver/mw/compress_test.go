package mw

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jsonPayload = `[` + strings.Repeat(`{"url":"https://example.com","description":"test"},`, 50) + `{}]`

func jsonHandler(contentType string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, jsonPayload)
	})
}

func decodeResponse(t *testing.T, encoding string, body []byte) string {
	t.Helper()
	switch encoding {
	case "gzip":
		zr, err := gzip.NewReader(bytes.NewReader(body))
		require.NoError(t, err)
		out, err := io.ReadAll(zr)
		require.NoError(t, err)
		return string(out)
	case "zstd":
		zr, err := zstd.NewReader(bytes.NewReader(body))
		require.NoError(t, err)
		defer zr.Close()
		out, err := io.ReadAll(zr)
		require.NoError(t, err)
		return string(out)
	case "":
		return string(body)
	}
	t.Fatalf("unexpected encoding %q", encoding)
	return ""
}

func TestCompress(t *testing.T) {
	tests := []struct {
		name           string
		acceptEncoding string
		contentType    string
		wantEncoding   string
	}{
		{"zstd", "zstd", "application/json", "zstd"},
		{"gzip", "gzip", "application/json", "gzip"},
		{"zstd preferred", "gzip, deflate, zstd", "application/json", "zstd"},
		{"no accept-encoding", "", "application/json", ""},
		{"unsupported only", "br", "application/json", ""},
		{"plain text", "gzip", "text/plain; charset=utf-8", "gzip"},
		{"not compressible", "gzip", "application/octet-stream", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()

			Compress(DefaultCompressionLevel)(jsonHandler(tt.contentType)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantEncoding, rec.Header().Get("Content-Encoding"))
			assert.Equal(t, jsonPayload, decodeResponse(t, tt.wantEncoding, rec.Body.Bytes()))
		})
	}
}

func TestCompressPooledEncodersAreReusable(t *testing.T) {
	h := Compress(DefaultCompressionLevel)(jsonHandler("application/json"))

	for i := 0; i < 3; i++ {
		for _, enc := range []string{"zstd", "gzip"} {
			req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
			req.Header.Set("Accept-Encoding", enc)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			require.Equal(t, enc, rec.Header().Get("Content-Encoding"))
			assert.Equal(t, jsonPayload, decodeResponse(t, enc, rec.Body.Bytes()))
		}
	}
}
