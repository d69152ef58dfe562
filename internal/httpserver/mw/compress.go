package mw

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compress encodes responses per Accept-Encoding. Preference is zstd, then
// gzip, then deflate; only compressible content types are touched.
func Compress(level int) func(http.Handler) http.Handler {
	c := middleware.NewCompressor(level)
	c.SetEncoder("gzip", encoderGzip)
	c.SetEncoder("zstd", encoderZstd)
	return c.Handler
}

func encoderGzip(w io.Writer, level int) io.Writer {
	gw, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return nil
	}
	return gw
}

func encoderZstd(w io.Writer, level int) io.Writer {
	zw, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil
	}
	return zw
}
