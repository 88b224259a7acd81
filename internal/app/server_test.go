package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/documind/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/documind/internal/api/middlewares"
	"github.com/markdave123-py/documind/internal/config"
	"github.com/markdave123-py/documind/internal/core"
	"github.com/markdave123-py/documind/internal/core/ingestion_engine"
	"github.com/markdave123-py/documind/internal/models"
	"github.com/markdave123-py/documind/internal/services"
)

type nopIngestor struct{}

func (nopIngestor) Ingest(_ context.Context, req ingestion_engine.IngestRequest) (*ingestion_engine.IngestResult, error) {
	return &ingestion_engine.IngestResult{Filename: req.Filename, Chunks: 3}, nil
}

type echoChat struct{}

func (echoChat) Validate([]models.Message) error { return nil }

func (echoChat) Stream(_ context.Context, in services.ChatInput, onToken core.TokenHandler) error {
	return onToken(in.Messages[len(in.Messages)-1].Content)
}

type noDocs struct{}

func (noDocs) List(context.Context) ([]models.DocumentSummary, error) {
	return []models.DocumentSummary{}, nil
}

// slowChat streams two tokens with a pause between them and fails if the
// request context ends before the second one.
type slowChat struct {
	pause time.Duration
}

func (slowChat) Validate([]models.Message) error { return nil }

func (c slowChat) Stream(ctx context.Context, _ services.ChatInput, onToken core.TokenHandler) error {
	if err := onToken("first "); err != nil {
		return err
	}
	select {
	case <-time.After(c.pause):
	case <-ctx.Done():
		return ctx.Err()
	}
	return onToken("second")
}

// deadlineDocs records whether the request context carried a deadline.
type deadlineDocs struct {
	hadDeadline *bool
}

func (d deadlineDocs) List(ctx context.Context) ([]models.DocumentSummary, error) {
	_, *d.hadDeadline = ctx.Deadline()
	return []models.DocumentSummary{}, nil
}

func testRouter(cfg *config.Config) http.Handler {
	return testRouterWith(cfg, echoChat{}, noDocs{})
}

func testRouterWith(cfg *config.Config, chat handlers.ChatStreamer, docs handlers.DocumentLister) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(cfg, log,
		handlers.NewIngestHandler(nopIngestor{}, log),
		handlers.NewChatHandler(chat, log),
		handlers.NewDocumentHandler(docs, log),
	)
}

func baseConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		RequestTimeout: time.Minute,
		CorsOrigins:    []string{"http://localhost:5173"},
	}
}

func TestRouter_HealthAndRoutes(t *testing.T) {
	r := testRouter(baseConfig())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"messages":[{"role":"user","content":"ping"}]}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ping", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_ChatStreamOutlivesRequestTimeout(t *testing.T) {
	cfg := baseConfig()
	cfg.RequestTimeout = 10 * time.Millisecond
	var hadDeadline bool
	r := testRouterWith(cfg, slowChat{pause: 60 * time.Millisecond}, deadlineDocs{hadDeadline: &hadDeadline})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"messages":[{"role":"user","content":"q"}]}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "first second", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, hadDeadline, "document listing stays bounded by the request timeout")
}

func TestRouter_JWTGate(t *testing.T) {
	cfg := baseConfig()
	cfg.JWTSecret = "s3cret"
	r := testRouter(cfg)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	tok, err := appMiddleware.MintToken("s3cret", "web", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := testRouter(baseConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_ServesWebDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>DocuMind</h1>"), 0o644))

	cfg := baseConfig()
	cfg.WebDir = dir
	r := testRouter(cfg)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "DocuMind")
}
