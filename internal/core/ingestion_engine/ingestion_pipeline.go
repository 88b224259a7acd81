package ingestion_engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/documind/internal/core"
	objectclient "github.com/markdave123-py/documind/internal/core/object-client"
	"github.com/markdave123-py/documind/internal/models"
)

// DocumentIngestor runs extract -> split -> embed -> persist for one upload.
// Chunks are embedded concurrently within a batch; batches run sequentially
// and each one is persisted before the next starts, so a failure keeps the
// batches already written.
type DocumentIngestor struct {
	store     core.VectorStore
	embedder  core.EmbeddingProvider
	extractor core.DocumentExtractor
	objects   core.ObjectClient
	splitter  *TextSplitter
	tokens    *TokenCounter
	cfg       *IngestConfig
	log       *slog.Logger
	newID     func() string
}

var _ Ingestor = (*DocumentIngestor)(nil)

// Option customises a DocumentIngestor.
type Option func(*DocumentIngestor)

// WithObjectClient archives every upload before indexing it.
func WithObjectClient(oc core.ObjectClient) Option {
	return func(d *DocumentIngestor) { d.objects = oc }
}

func WithTokenCounter(tc *TokenCounter) Option {
	return func(d *DocumentIngestor) { d.tokens = tc }
}

func WithLogger(log *slog.Logger) Option {
	return func(d *DocumentIngestor) { d.log = log }
}

// WithIDGenerator replaces the uuid generator used for ingest IDs.
func WithIDGenerator(fn func() string) Option {
	return func(d *DocumentIngestor) { d.newID = fn }
}

func NewDocumentIngestor(
	store core.VectorStore,
	embedder core.EmbeddingProvider,
	extractor core.DocumentExtractor,
	cfg *IngestConfig,
	opts ...Option,
) (*DocumentIngestor, error) {
	if store == nil || embedder == nil || extractor == nil {
		return nil, fmt.Errorf("ingestor requires a store, an embedder and an extractor")
	}
	if cfg == nil {
		cfg = DefaultIngestConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	splitter, err := NewTextSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	d := &DocumentIngestor{
		store:     store,
		embedder:  embedder,
		extractor: extractor,
		splitter:  splitter,
		cfg:       cfg,
		log:       slog.Default(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.tokens == nil {
		d.tokens = NewApproxTokenCounter()
	}
	return d, nil
}

func (d *DocumentIngestor) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	if strings.TrimSpace(req.Filename) == "" {
		return nil, fmt.Errorf("%w: filename is empty", core.ErrInvalidRequest)
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", core.ErrInvalidRequest, req.Filename)
	}

	started := time.Now()
	res := &IngestResult{IngestID: d.newID(), Filename: req.Filename}
	log := d.log.With("filename", req.Filename, "ingest_id", res.IngestID)

	contentType := ResolveContentType(req.Filename, req.ContentType, req.Data)
	text, err := d.extractor.ExtractText(ctx, req.Data, contentType)
	if err != nil {
		log.Warn("text extraction failed", "content_type", contentType, "error", err)
		return nil, fmt.Errorf("extract %s: %w", req.Filename, err)
	}

	var archiveKey string
	if d.objects != nil {
		archiveKey = objectclient.UploadKey(res.IngestID, req.Filename)
		url, err := d.objects.UploadFile(ctx, archiveKey, bytes.NewReader(req.Data), contentType)
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", req.Filename, err)
		}
		res.ArchiveURL = url
		log.Info("archived upload", "key", archiveKey)
	}

	chunks := d.splitter.Split(text)
	log.Info("document split", "characters", len([]rune(text)), "chunks", len(chunks))

	persisted, err := d.embedAndPersist(ctx, log, res, chunks)
	res.Chunks = persisted
	if err != nil {
		log.Error("ingestion stopped", "persisted", persisted, "total", len(chunks), "error", err)
		if persisted == 0 && archiveKey != "" {
			d.discardArchive(ctx, log, archiveKey)
		}
		return nil, err
	}

	log.Info("document ingested", "chunks", persisted, "duration", time.Since(started))
	return res, nil
}

// discardArchive removes an archived upload that produced no stored chunks.
func (d *DocumentIngestor) discardArchive(ctx context.Context, log *slog.Logger, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := d.objects.DeleteFile(ctx, key); err != nil {
		log.Warn("couldn't remove archived upload", "key", key, "error", err)
		return
	}
	log.Info("removed archived upload", "key", key)
}

func (d *DocumentIngestor) embedAndPersist(ctx context.Context, log *slog.Logger, res *IngestResult, chunks []Chunk) (int, error) {
	persisted := 0
	batches := (len(chunks) + d.cfg.BatchSize - 1) / d.cfg.BatchSize

	for b := 0; b < batches; b++ {
		lo := b * d.cfg.BatchSize
		hi := min(lo+d.cfg.BatchSize, len(chunks))
		batch := chunks[lo:hi]

		vectors, err := d.embedBatch(ctx, batch)
		if err != nil {
			return persisted, fmt.Errorf("embed batch %d/%d: %w", b+1, batches, err)
		}

		records := make([]models.ChunkRecord, len(batch))
		for i, ch := range batch {
			records[i] = models.ChunkRecord{
				Content:   ch.Content,
				Embedding: vectors[i],
				Metadata: map[string]any{
					models.MetaFilename:   res.Filename,
					models.MetaIngestID:   res.IngestID,
					models.MetaChunkIndex: ch.Index,
					models.MetaTokenCount: d.tokens.Count(ch.Content),
				},
			}
		}
		if err := d.store.InsertChunks(ctx, records); err != nil {
			return persisted, fmt.Errorf("persist batch %d/%d: %w", b+1, batches, err)
		}
		persisted += len(records)
		log.Debug("batch persisted", "batch", b+1, "of", batches, "chunks", len(records))
	}
	return persisted, nil
}

// embedBatch embeds every chunk of the batch concurrently. Vectors come back
// in chunk order regardless of completion order.
func (d *DocumentIngestor) embedBatch(ctx context.Context, batch []Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.BatchSize)

	for i, ch := range batch {
		g.Go(func() error {
			vec, err := d.embedder.Embed(gctx, ch.Content)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", ch.Index, err)
			}
			if len(vec) == 0 {
				return fmt.Errorf("chunk %d: %w", ch.Index, core.ErrEmptyEmbedding)
			}
			if want := d.embedder.Dimension(); want > 0 && len(vec) != want {
				return fmt.Errorf("chunk %d: %w: got %d want %d", ch.Index, core.ErrDimensionMismatch, len(vec), want)
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
