package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the wire-level response: exactly one of Response or Error is
// populated, and Code mirrors the HTTP status.
type Envelope struct {
	Code     int    `json:"code"`
	Response any    `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ScoreResponse is the online_score payload: the score plus the supplied
// fields, the latter kept for auditability.
type ScoreResponse struct {
	Score float64  `json:"score"`
	Has   []string `json:"has"`
}

func writeResponse(w http.ResponseWriter, logger *slog.Logger, code int, payload any) {
	writeEnvelope(w, logger, Envelope{Code: code, Response: payload})
}

func writeError(w http.ResponseWriter, logger *slog.Logger, code int, message string) {
	if message == "" {
		message = http.StatusText(code)
	}
	writeEnvelope(w, logger, Envelope{Code: code, Error: message})
}

func writeEnvelope(w http.ResponseWriter, logger *slog.Logger, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Code)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
