package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/markdave123-py/documind/internal/models"
)

func DocumentsAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	docs, err := appCtx.App.Documents.List(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	return printDocuments(output(cmd), docs)
}

func printDocuments(w io.Writer, docs []models.DocumentSummary) error {
	if len(docs) == 0 {
		_, err := fmt.Fprintln(w, "no documents indexed")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Filename", "Chunks", "Ingestions", "Last Ingested"})
	for _, d := range docs {
		table.Append([]string{
			d.FileName,
			strconv.Itoa(d.Chunks),
			strconv.Itoa(d.Ingestions),
			d.LastIngested.Format(time.RFC3339),
		})
	}
	table.Render()
	return nil
}
