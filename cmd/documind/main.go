package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/markdave123-py/documind/cmd/documind/commands"
)

func envFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "path to the environment file",
		Value: ".env",
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "documind",
		Usage: "index documents and ask questions about them",
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "extract, chunk, embed and store one or more files",
				ArgsUsage: "<file> [file...]",
				Flags:     []cli.Flag{envFlag()},
				Action:    commands.IngestAction,
			},
			{
				Name:   "documents",
				Usage:  "list indexed documents",
				Flags:  []cli.Flag{envFlag()},
				Action: commands.DocumentsAction,
			},
			{
				Name:      "ask",
				Usage:     "ask a question and stream the answer",
				ArgsUsage: "<question>",
				Flags: []cli.Flag{
					envFlag(),
					&cli.StringFlag{
						Name:  "file",
						Usage: "restrict retrieval to this filename",
					},
				},
				Action: commands.AskAction,
			},
			{
				Name:  "token",
				Usage: "mint a bearer token for the HTTP API",
				Flags: []cli.Flag{
					envFlag(),
					&cli.StringFlag{
						Name:  "subject",
						Usage: "token subject",
						Value: "documind-cli",
					},
					&cli.DurationFlag{
						Name:  "ttl",
						Usage: "token lifetime",
						Value: commands.DefaultTokenTTL,
					},
				},
				Action: commands.TokenAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
