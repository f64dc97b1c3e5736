// Package commands_test provides tests for CLI command creation.
package commands

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapparse/internal/cli/config"
	"github.com/leapstack-labs/leapparse/internal/cli/output"
	"github.com/leapstack-labs/leapparse/internal/cli/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs cmd with args under cfg, feeding stdin, and returns what it
// wrote to stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, stdin string, args ...string) (string, string, error) {
	t.Helper()
	config.SetCurrentConfig(cfg)
	t.Cleanup(config.ResetConfig)

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

// configWith returns the default config adjusted by fn.
func configWith(fn func(*config.Config)) *config.Config {
	cfg := config.Default()
	if fn != nil {
		fn(cfg)
	}
	return cfg
}

// newTestContext builds a CommandContext around a capturing renderer.
func newTestContext(cfg *config.Config, mode output.Mode) (*CommandContext, *testutil.TestRenderer) {
	tr := testutil.NewTestRenderer(mode, false)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   slog.New(slog.DiscardHandler),
		Renderer: tr.Renderer,
	}, tr
}

func TestNewParseCommand(t *testing.T) {
	cmd := NewParseCommand()

	assert.Equal(t, "parse [path...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"rule", "quiet"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewMatchCommand(t *testing.T) {
	cmd := NewMatchCommand()

	assert.Equal(t, "match <rule> [sql]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.Error(t, cmd.Args(cmd, nil), "rule argument is required")
	assert.Error(t, cmd.Args(cmd, []string{"a", "b", "c"}))
}

func TestNewWatchCommand(t *testing.T) {
	cmd := NewWatchCommand()

	assert.Equal(t, "watch [dir...]", cmd.Use)
	for _, flag := range []string{"rule", "debounce"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewREPLCommand(t *testing.T) {
	cmd := NewREPLCommand()

	assert.Equal(t, "repl", cmd.Use)
	assert.NotEmpty(t, cmd.Long, "Long should not be empty")
}

func TestNewDialectsCommand(t *testing.T) {
	cmd := NewDialectsCommand()

	assert.Equal(t, "dialects", cmd.Use)
	assert.Contains(t, cmd.Aliases, "ls")
}

func TestCommandContext(t *testing.T) {
	cfg := configWith(func(c *config.Config) {
		c.Dialect = "postgres"
		c.ShowNonCode = true
	})
	cmdCtx, _ := newTestContext(cfg, output.ModeMarkdown)

	p, err := cmdCtx.Parser("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", p.Dialect().Name())

	p, err = cmdCtx.Parser("DuckDB")
	require.NoError(t, err)
	assert.Equal(t, "duckdb", p.Dialect().Name())

	_, err = cmdCtx.Dialect("oracle")
	assert.Error(t, err)

	assert.True(t, cmdCtx.TreeOptions().IncludeNonCode)
	assert.Len(t, cmdCtx.ParserOptions(), 3)
}

func TestCommandContextTimeout(t *testing.T) {
	cmdCtx, _ := newTestContext(configWith(func(c *config.Config) { c.Timeout = 0 }), output.ModeMarkdown)
	ctx, cancel := cmdCtx.WithTimeout(t.Context())
	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)
	cancel()

	cmdCtx.Cfg.Timeout = config.DefaultTimeout
	ctx, cancel = cmdCtx.WithTimeout(t.Context())
	defer cancel()
	_, hasDeadline = ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestNewCommandContextFallsBackToDefaults(t *testing.T) {
	config.ResetConfig()
	cmd := &cobra.Command{Use: "x"}
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetContext(t.Context())

	cmdCtx := NewCommandContext(cmd)
	assert.Equal(t, config.DefaultDialect, cmdCtx.Cfg.Dialect)
	assert.Equal(t, output.ModeMarkdown, cmdCtx.Renderer.EffectiveMode(), "buffers are not terminals")
	assert.NotNil(t, cmdCtx.Logger)
}
