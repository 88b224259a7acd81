package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/markdave123-py/documind/internal/core"
	"github.com/markdave123-py/documind/internal/models"
	"github.com/markdave123-py/documind/internal/services"
)

// AskAction runs one chat turn from the terminal and prints tokens as they
// arrive.
func AskAction(ctx context.Context, cmd *cli.Command) error {
	question := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if question == "" {
		return errors.New("a question is required")
	}

	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	return ask(ctx, appCtx.App.Chat, output(cmd), question, cmd.String("file"))
}

type chatStreamer interface {
	Stream(ctx context.Context, in services.ChatInput, onToken core.TokenHandler) error
}

func ask(ctx context.Context, chat chatStreamer, w io.Writer, question, filename string) error {
	in := services.ChatInput{
		Messages: []models.Message{{Role: models.RoleUser, Content: question}},
		Filename: filename,
	}
	err := chat.Stream(ctx, in, func(tok string) error {
		_, err := io.WriteString(w, tok)
		return err
	})
	fmt.Fprintln(w)
	return err
}
