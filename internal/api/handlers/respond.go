package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	middleware "github.com/markdave123-py/documind/internal/api/middlewares"
)

// withSubject tags log lines with the authenticated caller, if any.
func withSubject(log *slog.Logger, r *http.Request) *slog.Logger {
	if sub, ok := middleware.Subject(r.Context()); ok {
		return log.With("subject", sub)
	}
	return log
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writePlain writes msg verbatim, without the trailing newline http.Error adds.
func writePlain(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}
