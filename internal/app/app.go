package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/markdave123-py/documind/internal/api/handlers"
	"github.com/markdave123-py/documind/internal/config"
	db "github.com/markdave123-py/documind/internal/core/database"
	"github.com/markdave123-py/documind/internal/core/ingestion_engine"
	"github.com/markdave123-py/documind/internal/core/llm"
	objectclient "github.com/markdave123-py/documind/internal/core/object-client"
	"github.com/markdave123-py/documind/internal/services"
)

type App struct {
	DBClient  *db.DatabaseClient
	Providers *llm.Providers
	Ingestor  *ingestion_engine.DocumentIngestor
	Chat      *services.ChatService
	Documents *services.DocumentService
	Server    *Server
}

// NewApp connects to Postgres, builds the AI providers and wires the
// ingestion and chat flows behind the HTTP server.
func NewApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, db.Options{
		DatabaseURL: cfg.DatabaseURL,
		SslCertPath: cfg.SslCertPath,
		EmbedDim:    cfg.EmbedDim,
	})
	if err != nil {
		return nil, err
	}
	log.Info("database initialized and ready", "embed_dim", cfg.EmbedDim)

	providers, err := llm.NewProviders(ctx, cfg)
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}
	if got := providers.Embedder.Dimension(); got != cfg.EmbedDim {
		_ = providers.Close()
		_ = dbClient.Close()
		return nil, fmt.Errorf("embedder dimension %d does not match EMBED_DIM %d", got, cfg.EmbedDim)
	}
	log.Info("ai providers ready", "provider", cfg.AIProvider, "embed_model", cfg.EmbedModel, "gen_model", cfg.GenModel)

	opts := []ingestion_engine.Option{
		ingestion_engine.WithLogger(log),
		ingestion_engine.WithTokenCounter(ingestion_engine.NewTokenCounter(log)),
	}
	if cfg.ArchiveEnabled() {
		objClient, err := objectclient.NewS3Client(appCtx, objectclient.Options{
			AccessKey: cfg.AwsAccessKey,
			SecretKey: cfg.AwsSecretKey,
			Region:    cfg.AwsRegion,
			Bucket:    cfg.BucketName,
		})
		if err != nil {
			_ = providers.Close()
			_ = dbClient.Close()
			return nil, err
		}
		opts = append(opts, ingestion_engine.WithObjectClient(objClient))
		log.Info("object client initialized and ready", "bucket", cfg.BucketName)
	}

	ingestor, err := ingestion_engine.NewDocumentIngestor(
		dbClient,
		providers.Embedder,
		ingestion_engine.NewTextExtractor(ingestion_engine.WithReadability(cfg.HTMLReadability)),
		&ingestion_engine.IngestConfig{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
			BatchSize:    cfg.EmbedBatchSize,
		},
		opts...,
	)
	if err != nil {
		_ = providers.Close()
		_ = dbClient.Close()
		return nil, fmt.Errorf("couldn't initialize the ingestor: %w", err)
	}

	chat := services.NewChatService(dbClient, providers.Embedder, providers.Chat, services.ChatOptions{
		MatchThreshold: cfg.MatchThreshold,
		MatchCount:     cfg.MatchCount,
		Temperature:    cfg.Temperature,
	}, log)
	documents := services.NewDocumentService(dbClient)

	router := NewRouter(cfg, log,
		handlers.NewIngestHandler(ingestor, log),
		handlers.NewChatHandler(chat, log),
		handlers.NewDocumentHandler(documents, log),
	)

	return &App{
		DBClient:  dbClient,
		Providers: providers,
		Ingestor:  ingestor,
		Chat:      chat,
		Documents: documents,
		Server:    NewServer(cfg, router, log),
	}, nil
}

func (a *App) Close() {
	if a.Providers != nil {
		_ = a.Providers.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
