package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/markdave123-py/documind/internal/core"
	"github.com/markdave123-py/documind/internal/core/ingestion_engine"
)

// MaxUploadBytes caps the multipart body of an ingest request.
const MaxUploadBytes = 50 << 20

const (
	msgNoFile      = "No file provided"
	msgNoTextLayer = "no extractable text layer found; the PDF may be a scanned image"
	msgParse       = "could not parse the uploaded document"
	msgIngest      = "failed to process document"
)

type IngestHandler struct {
	ingestor ingestion_engine.Ingestor
	log      *slog.Logger
}

func NewIngestHandler(ing ingestion_engine.Ingestor, log *slog.Logger) *IngestHandler {
	if log == nil {
		log = slog.Default()
	}
	return &IngestHandler{ingestor: ing, log: log}
}

// Ingest indexes the multipart field "file" and answers with the number of
// chunks stored.
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	log := withSubject(h.log, r)
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("read upload failed", "error", err)
		writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}

	res, err := h.ingestor.Ingest(r.Context(), ingestion_engine.IngestRequest{
		Filename:    filepath.Base(header.Filename),
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		log.Error("ingest failed", "filename", header.Filename, "error", err)
		switch {
		case errors.Is(err, core.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, msgNoFile)
		case errors.Is(err, core.ErrNoTextLayer):
			writeError(w, http.StatusInternalServerError, msgNoTextLayer)
		case errors.Is(err, core.ErrParse):
			writeError(w, http.StatusInternalServerError, msgParse)
		default:
			writeError(w, http.StatusInternalServerError, msgIngest)
		}
		return
	}

	log.Info("upload ingested", "filename", res.Filename, "chunks", res.Chunks)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"chunks":  res.Chunks,
	})
}
