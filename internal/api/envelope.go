package api

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape returned by every endpoint.
//
// Exactly one of Data/Details is populated, selected by Status: success
// responses may carry Data, error responses carry Details. A success
// with no result (a published command) is just {"status": "success"}.
type Envelope struct {
	Status  string         `json:"status"`
	Data    map[string]any `json:"data,omitempty"`
	Details string         `json:"details,omitempty"`
}

// Envelope status values.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeSuccess writes a success envelope. Data may be nil for operations
// that produce no result body.
func writeSuccess(w http.ResponseWriter, status int, data map[string]any) {
	writeJSON(w, status, Envelope{
		Status: statusSuccess,
		Data:   data,
	})
}

// writeError writes an error envelope with a human-readable details string.
func writeError(w http.ResponseWriter, status int, details string) {
	writeJSON(w, status, Envelope{
		Status:  statusError,
		Details: details,
	})
}
