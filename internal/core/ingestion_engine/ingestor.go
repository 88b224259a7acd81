package ingestion_engine

import "context"

// Ingestor indexes one uploaded document.
type Ingestor interface {
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)
}

// IngestRequest is one uploaded file.
type IngestRequest struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IngestResult reports what an ingestion run persisted.
type IngestResult struct {
	IngestID   string `json:"ingest_id"`
	Filename   string `json:"filename"`
	Chunks     int    `json:"chunks"`
	ArchiveURL string `json:"archive_url,omitempty"`
}
