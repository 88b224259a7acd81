package models

import (
	"time"
)

// Chat roles accepted from callers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Metadata keys stored on every chunk record.
const (
	MetaFilename   = "filename"
	MetaIngestID   = "ingest_id"
	MetaChunkIndex = "chunk_index"
	MetaTokenCount = "token_count"
)

// ChunkRecord is one row of the chunk collection: text, its embedding and
// metadata. Records are append-only.
type ChunkRecord struct {
	ID        int64          `db:"id" json:"id"`
	Content   string         `db:"content" json:"content"`
	Embedding []float32      `db:"embedding" json:"-"` // pgvector column
	Metadata  map[string]any `db:"metadata" json:"metadata"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Filename returns the owning document's filename from the metadata.
func (c ChunkRecord) Filename() string {
	s, _ := c.Metadata[MetaFilename].(string)
	return s
}

// MatchQuery describes one similarity search.
type MatchQuery struct {
	Embedding []float32
	Threshold float64
	Count     int
	Filter    map[string]any
}

// Match is one retrieval result.
type Match struct {
	ID         int64          `json:"id"`
	Content    string         `json:"content"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata"`
}

// Filename returns the source filename of the match, if any.
func (m Match) Filename() string {
	s, _ := m.Metadata[MetaFilename].(string)
	return s
}

// DocumentSummary aggregates the chunks indexed under one filename.
type DocumentSummary struct {
	FileName      string    `json:"file_name"`
	Chunks        int       `json:"chunks"`
	Ingestions    int       `json:"ingestions"`
	FirstIngested time.Time `json:"first_ingested"`
	LastIngested  time.Time `json:"last_ingested"`
}

// Message is an individual chat message (user or assistant).
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is what a chat provider receives: the system prompt, the
// full conversation and the sampling temperature.
type ChatRequest struct {
	SystemPrompt string
	Messages     []Message
	Temperature  float64
}
