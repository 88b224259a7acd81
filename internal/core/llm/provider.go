package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/markdave123-py/documind/internal/config"
	"github.com/markdave123-py/documind/internal/core"
)

// Providers bundles the embedding and chat clients selected by AI_PROVIDER.
type Providers struct {
	Embedder core.EmbeddingProvider
	Chat     core.ChatProvider
	closers  []func() error
}

// NewProviders builds the provider pair named by cfg.AIProvider.
func NewProviders(ctx context.Context, cfg *config.Config) (*Providers, error) {
	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		emb, err := NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbedModel, cfg.EmbedDim)
		if err != nil {
			return nil, fmt.Errorf("couldn't initialize the embedder: %w", err)
		}
		chat, err := NewOpenAIChat(cfg.OpenAIAPIKey, cfg.GenModel)
		if err != nil {
			return nil, fmt.Errorf("couldn't initialize the chat client: %w", err)
		}
		return &Providers{Embedder: emb, Chat: chat}, nil

	case config.ProviderGemini:
		emb, err := NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbedModel, cfg.EmbedDim)
		if err != nil {
			return nil, fmt.Errorf("couldn't initialize the embedder: %w", err)
		}
		chat, err := NewGeminiLLM(ctx, cfg.GeminiAPIKey, cfg.GenModel)
		if err != nil {
			_ = emb.Close()
			return nil, fmt.Errorf("couldn't initialize the chat client: %w", err)
		}
		return &Providers{Embedder: emb, Chat: chat, closers: []func() error{emb.Close, chat.Close}}, nil

	case config.ProviderAzure:
		az, err := NewAzureOpenAI(cfg.AzureAPIKey, cfg.AzureEndpoint, cfg.EmbedModel, cfg.GenModel, cfg.EmbedDim)
		if err != nil {
			return nil, fmt.Errorf("couldn't initialize azure openai: %w", err)
		}
		return &Providers{Embedder: az, Chat: az}, nil
	}
	return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
}

func (p *Providers) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
