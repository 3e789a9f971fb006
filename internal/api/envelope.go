package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire-format version clients pin against.
const envelopeVersion = 1

// Envelope is the uniform response wrapper for every endpoint.
type Envelope struct {
	V       int       `json:"v"`
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// EnvelopeTransformer wraps every huma response body in an Envelope.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return Envelope{V: envelopeVersion, Success: false, Error: apiErr}, nil
	}
	return Envelope{V: envelopeVersion, Success: true, Data: v}, nil
}

// writeError emits an enveloped error from plain http middleware,
// outside huma's pipeline.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.MarshalWrite(w, Envelope{
		V:       envelopeVersion,
		Success: false,
		Error:   &APIError{status: status, Code: statusToCode(status), Message: message},
	})
}
