package services

import (
	"context"

	"github.com/markdave123-py/documind/internal/core"
	"github.com/markdave123-py/documind/internal/models"
)

type DocumentService struct {
	store core.VectorStore
}

func NewDocumentService(store core.VectorStore) *DocumentService {
	return &DocumentService{store: store}
}

// List returns one summary per indexed filename.
func (s *DocumentService) List(ctx context.Context) ([]models.DocumentSummary, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []models.DocumentSummary{}
	}
	return docs, nil
}
