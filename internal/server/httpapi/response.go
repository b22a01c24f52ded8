// Package httpapi is the thin HTTP JSON adapter over the account and session
// services. Every response uses the fixed envelope {message, data, code};
// failures never leak stack traces or storage details.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// Envelope codes. Codes 6 and 7 are reserved for future use.
const (
	CodeSuccess          = 0
	CodeInvalidRequest   = 1
	CodePermissionDenied = 2
	CodeNotFound         = 3
	CodeAlreadyExists    = 4
	CodeInternalError    = 5
	CodeSessionExpired   = 6
	CodeCompatibility    = 7
)

// Response is the fixed envelope returned by every endpoint.
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Code    int    `json:"code"`
}

func writeResponse(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeResponse(w, Response{Message: message, Data: data, Code: CodeSuccess})
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeResponse(w, Response{Message: message, Code: code})
}
