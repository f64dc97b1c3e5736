package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapparse/internal/cli/config"
	"github.com/leapstack-labs/leapparse/internal/cli/output"
	"github.com/leapstack-labs/leapparse/pkg/dialect"
	"github.com/leapstack-labs/leapparse/pkg/leapparse"
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/leapstack-labs/leapparse/pkg/segment"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode, err := output.ParseMode(cfg.Output)
	if err != nil {
		mode = output.ModeAuto
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration, or the defaults when the
// command runs without the root command's config loading (tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// ParserOptions returns parser options for the configured limits.
func (c *CommandContext) ParserOptions() []parser.Option {
	return []parser.Option{
		parser.WithLogger(c.Logger),
		parser.WithMaxDepth(c.Cfg.MaxDepth),
		parser.WithMaxSteps(c.Cfg.MaxSteps),
	}
}

// Parser loads the configured dialect, or name when it is not empty.
func (c *CommandContext) Parser(name string) (*parser.Parser, error) {
	if name == "" {
		name = c.Cfg.Dialect
	}
	return leapparse.NewParser(name, c.ParserOptions()...)
}

// Dialect loads the configured dialect, or name when it is not empty.
func (c *CommandContext) Dialect(name string) (*dialect.Dialect, error) {
	if name == "" {
		name = c.Cfg.Dialect
	}
	return dialect.Load(name)
}

// WithTimeout bounds ctx by the configured timeout, if any.
func (c *CommandContext) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Cfg.Timeout)
}

// TreeOptions returns the tree rendering options from config.
func (c *CommandContext) TreeOptions() segment.TreeOptions {
	return segment.TreeOptions{IncludeNonCode: c.Cfg.ShowNonCode}
}
