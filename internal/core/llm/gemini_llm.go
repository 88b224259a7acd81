package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/markdave123-py/documind/internal/core"
	"github.com/markdave123-py/documind/internal/models"
)

type GeminiLLM struct {
	client    *genai.Client
	modelName string
}

func NewGeminiLLM(ctx context.Context, apiKey, modelName string) (*GeminiLLM, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiLLM{client: cl, modelName: modelName}, nil
}

func (g *GeminiLLM) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// StreamChat replays all but the last message as chat history and streams
// the reply to the last one.
func (g *GeminiLLM) StreamChat(ctx context.Context, req models.ChatRequest, onToken core.TokenHandler) error {
	history, last, err := toGeminiHistory(req.Messages)
	if err != nil {
		return err
	}

	m := g.client.GenerativeModel(g.modelName)
	m.SetTemperature(float32(req.Temperature))
	if req.SystemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}

	cs := m.StartChat()
	cs.History = history

	iter := cs.SendMessageStream(ctx, genai.Text(last))
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("gemini stream: %w", err)
		}
		if err := emitCandidateText(resp, onToken); err != nil {
			return err
		}
	}
}

// toGeminiHistory maps the conversation to Gemini roles ("user"/"model").
func toGeminiHistory(msgs []models.Message) ([]*genai.Content, string, error) {
	if len(msgs) == 0 {
		return nil, "", fmt.Errorf("%w: empty conversation", core.ErrInvalidRequest)
	}
	history := make([]*genai.Content, 0, len(msgs)-1)
	for _, m := range msgs[:len(msgs)-1] {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return history, msgs[len(msgs)-1].Content, nil
}

func emitCandidateText(resp *genai.GenerateContentResponse, onToken core.TokenHandler) error {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok && t != "" {
			if err := onToken(string(t)); err != nil {
				return err
			}
		}
	}
	return nil
}

var _ core.ChatProvider = (*GeminiLLM)(nil)
