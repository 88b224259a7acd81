package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/markdave123-py/documind/internal/app"
	"github.com/markdave123-py/documind/internal/config"
	"github.com/markdave123-py/documind/internal/logger"
)

// AppContext holds the components a CLI command needs.
type AppContext struct {
	Config *config.Config
	Logger *slog.Logger
	App    *app.App
}

// NewAppContext loads envFile and wires the same components the HTTP server
// uses. Logs go to stderr so command output stays clean.
func NewAppContext(ctx context.Context, envFile string) (*AppContext, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logCfg := logger.FromStrings(cfg.LogLevel, "text")
	logCfg.Output = os.Stderr
	log := logger.New(logCfg)

	a, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &AppContext{Config: cfg, Logger: log, App: a}, nil
}

func (c *AppContext) Close() {
	if c.App != nil {
		c.App.Close()
	}
}

// output is where command results are printed.
func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
