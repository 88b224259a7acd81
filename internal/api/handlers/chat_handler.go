package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/markdave123-py/documind/internal/core"
	"github.com/markdave123-py/documind/internal/models"
	"github.com/markdave123-py/documind/internal/services"
)

// ChatStreamer is the part of the chat service the handler needs.
type ChatStreamer interface {
	Validate(messages []models.Message) error
	Stream(ctx context.Context, in services.ChatInput, onToken core.TokenHandler) error
}

type ChatHandler struct {
	chat ChatStreamer
	log  *slog.Logger
}

func NewChatHandler(chat ChatStreamer, log *slog.Logger) *ChatHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ChatHandler{chat: chat, log: log}
}

// Chat streams the assistant answer as plain text. Errors before the first
// token become a 500; errors after it end the stream early.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var in services.ChatInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writePlain(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := h.chat.Validate(in.Messages); err != nil {
		writePlain(w, http.StatusBadRequest, "Invalid request")
		return
	}

	log := withSubject(h.log, r)
	ts := &tokenStream{w: w, rc: http.NewResponseController(w)}
	err := h.chat.Stream(r.Context(), in, ts.write)
	switch {
	case err == nil:
		ts.start()
	case ts.started:
		log.Error("chat stream interrupted", "filename", in.Filename, "error", err)
	case errors.Is(err, core.ErrInvalidRequest):
		writePlain(w, http.StatusBadRequest, "Invalid request")
	default:
		log.Error("chat failed", "filename", in.Filename, "error", err)
		writePlain(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// tokenStream commits the 200 header on the first token and flushes after
// every write.
type tokenStream struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	started bool
}

func (s *tokenStream) start() {
	if s.started {
		return
	}
	s.started = true
	h := s.w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Content-Type-Options", "nosniff")
	s.w.WriteHeader(http.StatusOK)
}

func (s *tokenStream) write(token string) error {
	s.start()
	if _, err := io.WriteString(s.w, token); err != nil {
		return err
	}
	_ = s.rc.Flush()
	return nil
}
