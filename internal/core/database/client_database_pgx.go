package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"

	"github.com/markdave123-py/documind/internal/core"
	"github.com/markdave123-py/documind/internal/models"
)

// Options configures the Postgres connection.
type Options struct {
	DatabaseURL string
	SslCertPath string
	EmbedDim    int
}

type DatabaseClient struct {
	db       *sql.DB
	embedDim int
}

var _ core.VectorStore = (*DatabaseClient)(nil)

func NewDatabaseClient(ctx context.Context, opts Options) (*DatabaseClient, error) {
	if opts.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	dsn, err := buildDSN(opts.DatabaseURL, opts.SslCertPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db, opts.EmbedDim); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return NewFromDB(db, opts.EmbedDim), nil
}

// NewFromDB wraps an already opened handle. The schema is assumed to exist.
func NewFromDB(db *sql.DB, embedDim int) *DatabaseClient {
	return &DatabaseClient{db: db, embedDim: embedDim}
}

// buildDSN appends verify-ca SSL params when a root certificate is given.
func buildDSN(databaseURL, sslCertPath string) (string, error) {
	if sslCertPath == "" {
		return databaseURL, nil
	}
	if _, err := os.Stat(sslCertPath); err != nil {
		return "", fmt.Errorf("ssl cert not accessible at %q: %w", sslCertPath, err)
	}
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	q := u.Query()
	q.Set("sslmode", "verify-ca")
	q.Set("sslrootcert", sslCertPath)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// InsertChunks appends chunk records in a single transaction. There is no
// uniqueness constraint: re-ingesting a file adds new rows.
func (c *DatabaseClient) InsertChunks(ctx context.Context, chunks []models.ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}
	for i := range chunks {
		if err := c.checkDim(chunks[i].Embedding); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
	}

	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	const q = `
		INSERT INTO documents (content, embedding, metadata)
		VALUES ($1, $2, $3::jsonb)
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range chunks {
		ch := &chunks[i]
		meta, err := json.Marshal(orEmpty(ch.Metadata))
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, ch.Content, pgvector.NewVector(ch.Embedding), string(meta)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunks: %w", err)
	}
	return nil
}

// MatchChunks runs match_documents: records whose similarity exceeds the
// threshold and whose metadata contains the filter, best first.
func (c *DatabaseClient) MatchChunks(ctx context.Context, mq models.MatchQuery) ([]models.Match, error) {
	if err := c.checkDim(mq.Embedding); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if mq.Count <= 0 {
		return nil, fmt.Errorf("match count must be positive, got %d", mq.Count)
	}
	filter, err := json.Marshal(orEmpty(mq.Filter))
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}

	const q = `
		SELECT id, content, metadata, similarity
		FROM match_documents($1, $2, $3, $4::jsonb)
	`
	rows, err := c.db.QueryContext(ctx, q, pgvector.NewVector(mq.Embedding), mq.Threshold, mq.Count, string(filter))
	if err != nil {
		return nil, fmt.Errorf("match documents: %w", err)
	}
	defer rows.Close()

	var out []models.Match
	for rows.Next() {
		var (
			m    models.Match
			meta []byte
		)
		if err := rows.Scan(&m.ID, &m.Content, &meta, &m.Similarity); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if err := decodeMetadata(meta, &m.Metadata); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListDocuments aggregates stored chunks per filename, newest first.
func (c *DatabaseClient) ListDocuments(ctx context.Context) ([]models.DocumentSummary, error) {
	const q = `
		SELECT metadata->>'filename' AS file_name,
		       count(*),
		       count(DISTINCT metadata->>'ingest_id'),
		       min(created_at),
		       max(created_at)
		FROM documents
		WHERE metadata ? 'filename'
		GROUP BY metadata->>'filename'
		ORDER BY max(created_at) DESC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []models.DocumentSummary
	for rows.Next() {
		var d models.DocumentSummary
		if err := rows.Scan(&d.FileName, &d.Chunks, &d.Ingestions, &d.FirstIngested, &d.LastIngested); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) checkDim(vec []float32) error {
	if len(vec) == 0 {
		return core.ErrEmptyEmbedding
	}
	if c.embedDim > 0 && len(vec) != c.embedDim {
		return fmt.Errorf("embedding dimension mismatch: got %d want %d", len(vec), c.embedDim)
	}
	return nil
}

func decodeMetadata(raw []byte, dst *map[string]any) error {
	if len(raw) == 0 {
		*dst = map[string]any{}
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Join(errors.New("decode metadata"), err)
	}
	return nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
