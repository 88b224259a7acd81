package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/markdave123-py/documind/internal/core"
	"github.com/markdave123-py/documind/internal/models"
)

// AzureOpenAI serves both embeddings and chat from an Azure OpenAI resource.
// Model names are used as deployment names.
type AzureOpenAI struct {
	client     *goopenai.Client
	embedModel string
	chatModel  string
	dimension  int
}

func NewAzureOpenAI(apiKey, endpoint, embedModel, chatModel string, dimension int) (*AzureOpenAI, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	if endpoint == "" {
		return nil, errors.New("azure endpoint not set")
	}
	cfg := goopenai.DefaultAzureConfig(apiKey, endpoint)
	return &AzureOpenAI{
		client:     goopenai.NewClientWithConfig(cfg),
		embedModel: embedModel,
		chatModel:  chatModel,
		dimension:  dimension,
	}, nil
}

func (a *AzureOpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Model:      goopenai.EmbeddingModel(a.embedModel),
		Input:      []string{text},
		Dimensions: a.dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("azure embed: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, core.ErrEmptyEmbedding
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i := range raw {
		vec[i] = float32(raw[i])
	}
	return vec, nil
}

func (a *AzureOpenAI) Dimension() int {
	return a.dimension
}

func (a *AzureOpenAI) StreamChat(ctx context.Context, req models.ChatRequest, onToken core.TokenHandler) error {
	msgs := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages)+1)
	msgs = append(msgs, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: req.SystemPrompt})
	for _, m := range req.Messages {
		role := goopenai.ChatMessageRoleUser
		switch m.Role {
		case models.RoleAssistant:
			role = goopenai.ChatMessageRoleAssistant
		case models.RoleSystem:
			role = goopenai.ChatMessageRoleSystem
		}
		msgs = append(msgs, goopenai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	stream, err := a.client.CreateChatCompletionStream(ctx, goopenai.ChatCompletionRequest{
		Model:       a.chatModel,
		Messages:    msgs,
		Temperature: float32(req.Temperature),
		Stream:      true,
	})
	if err != nil {
		return fmt.Errorf("azure stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("azure stream: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			if err := onToken(delta); err != nil {
				return err
			}
		}
	}
}

var (
	_ core.EmbeddingProvider = (*AzureOpenAI)(nil)
	_ core.ChatProvider      = (*AzureOpenAI)(nil)
)
