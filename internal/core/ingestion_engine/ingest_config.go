package ingestion_engine

import "fmt"

// IngestConfig tunes the ingestion pipeline.
//
// ChunkSize:    maximum chunk length in characters (e.g., 1000).
// ChunkOverlap: characters shared by consecutive chunks (e.g., 200).
// BatchSize:    chunks embedded concurrently and persisted together (e.g., 10).
type IngestConfig struct {
	ChunkSize    int
	ChunkOverlap int
	BatchSize    int
}

// DefaultIngestConfig mirrors the defaults of the HTTP service.
func DefaultIngestConfig() *IngestConfig {
	return &IngestConfig{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		BatchSize:    10,
	}
}

func (c *IngestConfig) validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	return nil
}
