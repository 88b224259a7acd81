package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/markdave123-py/documind/internal/api/middlewares"
	"github.com/markdave123-py/documind/internal/config"
)

const DefaultTokenTTL = 24 * time.Hour

// TokenAction prints a bearer token signed with JWT_SECRET without
// connecting to the database.
func TokenAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig(cmd.String("env"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set; the API is not gated")
	}

	tok, err := middleware.MintToken(cfg.JWTSecret, cmd.String("subject"), cmd.Duration("ttl"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output(cmd), tok)
	return err
}
