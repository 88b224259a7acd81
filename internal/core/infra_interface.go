package core

import (
	"context"
	"io"

	"github.com/markdave123-py/documind/internal/models"
)

// VectorStore persists chunk records and runs similarity search over them.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type VectorStore interface {
	InsertChunks(ctx context.Context, chunks []models.ChunkRecord) error
	MatchChunks(ctx context.Context, q models.MatchQuery) ([]models.Match, error)
	ListDocuments(ctx context.Context) ([]models.DocumentSummary, error)
	Close() error
}

// ObjectClient archives uploads in S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, key string) error
}
