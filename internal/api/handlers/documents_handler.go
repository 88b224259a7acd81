package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/markdave123-py/documind/internal/models"
)

type DocumentLister interface {
	List(ctx context.Context) ([]models.DocumentSummary, error)
}

type DocumentHandler struct {
	docs DocumentLister
	log  *slog.Logger
}

func NewDocumentHandler(docs DocumentLister, log *slog.Logger) *DocumentHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DocumentHandler{docs: docs, log: log}
}

func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.List(r.Context())
	if err != nil {
		h.log.Error("list documents failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}
