// Package respond writes JSON bodies and the error envelope shared by
// handlers, middlewares and the router fallbacks.
package respond

import (
	"encoding/json"
	"net/http"
)

// Error codes carried in the "code" field of error bodies.
const (
	CodeInvalidBody             = "INVALID_BODY"
	CodeMissingURL              = "MISSING_URL"
	CodeInvalidID               = "INVALID_ID"
	CodeNotFound                = "NOT_FOUND"
	CodeStoreError              = "STORE_ERROR"
	CodeWriteVerificationFailed = "WRITE_VERIFICATION_FAILED"
	CodeRouteNotFound           = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed        = "METHOD_NOT_ALLOWED"
	CodeMalformedBody           = "MALFORMED_BODY"
	CodeUnsupportedEncoding     = "UNSUPPORTED_ENCODING"
	CodeBodyTooLarge            = "BODY_TOO_LARGE"
	CodeStoreUnavailable        = "STORE_UNAVAILABLE"
)

// ErrorBody is the body of every non-2xx JSON response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the error envelope.
func Error(w http.ResponseWriter, status int, code, msg string) {
	JSON(w, status, ErrorBody{Error: msg, Code: code})
}
