package core

import (
	"context"

	"github.com/markdave123-py/documind/internal/models"
)

// EmbeddingProvider maps text to a fixed-dimension vector. The same provider
// must serve ingestion and queries so vectors stay comparable.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// TokenHandler receives streamed completion text as it arrives. Returning an
// error stops the stream.
type TokenHandler func(token string) error

// ChatProvider streams a completion for a system prompt plus conversation.
type ChatProvider interface {
	StreamChat(ctx context.Context, req models.ChatRequest, onToken TokenHandler) error
}
