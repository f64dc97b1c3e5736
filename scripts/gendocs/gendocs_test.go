package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapparse/pkg/dialect"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDialectDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateDialectDocs(dir))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), generatedMarker)
	assert.Contains(t, string(index), "[`postgres`](/dialects/postgres)")

	page, err := os.ReadFile(filepath.Join(dir, "postgres.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "Extends `ansi`.")
	assert.Contains(t, string(page), "### ShorthandCastSegment")
	assert.Contains(t, string(page), "## Replaced Rules")
	assert.NotContains(t, string(page), "### SelectClauseSegment", "inherited rules live on the parent page")

	page, err = os.ReadFile(filepath.Join(dir, "ansi.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "## Rules")
	assert.Contains(t, string(page), "### SelectClauseSegment")
}

func TestCountStatus(t *testing.T) {
	d := dialect.MustLoad("ansi")
	inserted, replaced := countStatus(d)
	assert.Equal(t, len(d.RuleNames()), inserted)
	assert.Zero(t, replaced)
}

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "[`parse`](/cli/parse)")
	assert.Contains(t, string(index), "`--dialect`")
	assert.Contains(t, string(index), "LEAPPARSE_DIALECT")

	parse, err := os.ReadFile(filepath.Join(dir, "parse.md"))
	require.NoError(t, err)
	assert.Contains(t, string(parse), "leapparse parse [path...]")
	assert.Contains(t, string(parse), "## Global Options")
	assert.Contains(t, string(parse), "## Rules")
	assert.Contains(t, string(parse), "## Exit Status")
	assert.Contains(t, string(parse), "| `--max-depth` |  |  | `max_depth` |")

	match, err := os.ReadFile(filepath.Join(dir, "match.md"))
	require.NoError(t, err)
	assert.Contains(t, string(match), "[`duckdb`](/dialects/duckdb)")
	assert.Contains(t, string(match), "| `rule` | yes | no |")

	version, err := os.ReadFile(filepath.Join(dir, "version.md"))
	require.NoError(t, err)
	assert.NotContains(t, string(version), "## Rules")
	assert.NotContains(t, string(version), "## Arguments")
}

func TestUseArgs(t *testing.T) {
	tests := []struct {
		use  string
		want []useArg
	}{
		{"version", nil},
		{"match <rule> [sql]", []useArg{{name: "rule", required: true}, {name: "sql"}}},
		{"parse [path...]", []useArg{{name: "path", repeated: true}}},
		{"completion [bash|zsh|fish|powershell]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.want, useArgs(&cobra.Command{Use: tt.use}))
		})
	}
}

func TestFlagDefault(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", 0, "")
	flags.Duration("timeout", 0, "")
	flags.StringSlice("extensions", nil, "")
	flags.String("status", "all", "")

	assert.Empty(t, flagDefault(flags.Lookup("workers")))
	assert.Empty(t, flagDefault(flags.Lookup("timeout")))
	assert.Empty(t, flagDefault(flags.Lookup("extensions")))
	assert.Equal(t, "`all`", flagDefault(flags.Lookup("status")))
}

func TestMarkdownWriterTable(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"A", "B"}, [][]string{{"x|y", "z"}})
	assert.Equal(t, "| A | B |\n| --- | --- |\n| x\\|y | z |\n\n", string(w.Bytes()))

	w = NewMarkdownWriter()
	w.Table([]string{"A"}, nil)
	assert.Empty(t, w.Bytes())
}

func TestCleanExample(t *testing.T) {
	assert.Equal(t, "a\n  b", cleanExample("  a\n    b\n"))
}

func TestConfigKeys(t *testing.T) {
	byKey := make(map[string]configKey)
	for _, k := range configKeys() {
		byKey[k.Key] = k
	}

	require.Contains(t, byKey, "max_steps")
	assert.Equal(t, "LEAPPARSE_MAX_STEPS", byKey["max_steps"].Env)
	assert.Equal(t, "int", byKey["max_steps"].Type)
	assert.Equal(t, "`2000000`", byKey["max_steps"].Default)
	assert.Equal(t, "`30s`", byKey["timeout"].Default)
	assert.Equal(t, "`.sql`", byKey["extensions"].Default)
	assert.Empty(t, byKey["strict"].Default)
}
