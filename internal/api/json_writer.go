package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSONResponse is the envelope every endpoint writes.
type JSONResponse struct {
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// JSONWriter writes envelopes.
type JSONWriter struct{}

// Write encodes response with the given status.
func (JSONWriter) Write(w http.ResponseWriter, status int, response JSONResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

// Success writes a successful envelope around payload.
func (jw JSONWriter) Success(w http.ResponseWriter, payload any) {
	jw.Write(w, http.StatusOK, JSONResponse{Success: true, Payload: payload})
}

// Failure writes an unsuccessful envelope.
func (jw JSONWriter) Failure(w http.ResponseWriter, status int, msg string) {
	jw.Write(w, status, JSONResponse{Success: false, Error: msg})
}
