package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/markdave123-py/documind/internal/core"
	"github.com/markdave123-py/documind/internal/models"
)

// ChatInput is the body of a chat request.
type ChatInput struct {
	Messages []models.Message `json:"messages"`
	Filename string           `json:"filename"`
}

// ChatOptions are the retrieval and sampling knobs of the chat flow.
type ChatOptions struct {
	MatchThreshold float64
	MatchCount     int
	Temperature    float64
}

type ChatService struct {
	store    core.VectorStore
	embedder core.EmbeddingProvider
	chat     core.ChatProvider
	opts     ChatOptions
	log      *slog.Logger
}

func NewChatService(store core.VectorStore, embedder core.EmbeddingProvider, chat core.ChatProvider, opts ChatOptions, log *slog.Logger) *ChatService {
	if log == nil {
		log = slog.Default()
	}
	return &ChatService{store: store, embedder: embedder, chat: chat, opts: opts, log: log}
}

// Validate checks a conversation before any upstream call is made. The last
// message must come from the user.
func (s *ChatService) Validate(messages []models.Message) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: no messages", core.ErrInvalidRequest)
	}
	for i, m := range messages {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			return fmt.Errorf("%w: message %d has role %q", core.ErrInvalidRequest, i, m.Role)
		}
	}
	last := messages[len(messages)-1]
	if last.Role != models.RoleUser {
		return fmt.Errorf("%w: last message must be from the user", core.ErrInvalidRequest)
	}
	if strings.TrimSpace(last.Content) == "" {
		return fmt.Errorf("%w: last message is empty", core.ErrInvalidRequest)
	}
	return nil
}

// Retrieve embeds the query and returns the chunks above the similarity
// threshold, best first. An empty filename searches every document.
func (s *ChatService) Retrieve(ctx context.Context, query, filename string) ([]models.Match, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	filter := map[string]any{}
	if filename != "" {
		filter[models.MetaFilename] = filename
	}
	matches, err := s.store.MatchChunks(ctx, models.MatchQuery{
		Embedding: vec,
		Threshold: s.opts.MatchThreshold,
		Count:     s.opts.MatchCount,
		Filter:    filter,
	})
	if err != nil {
		return nil, fmt.Errorf("match chunks: %w", err)
	}
	return matches, nil
}

// Stream answers the last user message with retrieved context and forwards
// completion tokens to onToken as they arrive.
func (s *ChatService) Stream(ctx context.Context, in ChatInput, onToken core.TokenHandler) error {
	if err := s.Validate(in.Messages); err != nil {
		return err
	}
	question := in.Messages[len(in.Messages)-1].Content

	matches, err := s.Retrieve(ctx, question, in.Filename)
	if err != nil {
		return err
	}
	s.log.Debug("retrieved context", "filename", in.Filename, "matches", len(matches))

	req := models.ChatRequest{
		SystemPrompt: SystemPrompt(BuildContext(matches)),
		Messages:     in.Messages,
		Temperature:  s.opts.Temperature,
	}
	if err := s.chat.StreamChat(ctx, req, onToken); err != nil {
		return fmt.Errorf("chat completion: %w", err)
	}
	return nil
}
