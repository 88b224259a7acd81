package commands

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/markdave123-py/documind/internal/core/ingestion_engine"
)

// IngestAction indexes every file given as an argument, in order.
func IngestAction(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return errors.New("at least one file is required")
	}

	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	for _, p := range paths {
		res, err := ingestFile(ctx, appCtx.App.Ingestor, p)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", p, err)
		}
		fmt.Fprintf(output(cmd), "✓ %s: %d chunks (ingest %s)\n", res.Filename, res.Chunks, res.IngestID)
	}
	return nil
}

func ingestFile(ctx context.Context, ing ingestion_engine.Ingestor, path string) (*ingestion_engine.IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ing.Ingest(ctx, ingestion_engine.IngestRequest{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	})
}
