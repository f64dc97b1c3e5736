package commands

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/leapparse/internal/cli/config"
	"github.com/leapstack-labs/leapparse/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRulesCommand(t *testing.T) {
	cmd := NewRulesCommand()

	assert.Equal(t, "rules [rule]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Verify flags exist
	flags := []string{"status", "grammar"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRulesCommand_ListAll(t *testing.T) {
	out, _, err := execute(t, NewRulesCommand(), config.Default(), "")
	require.NoError(t, err)

	assert.Contains(t, out, "# Ansi Rules")
	assert.Contains(t, out, "- **SelectStatementSegment** (`inserted`)")
	assert.NotContains(t, out, "Extends")
	testutil.AssertValidMarkdown(t, out)
}

func TestRulesCommand_FilterByStatus(t *testing.T) {
	cfg := configWith(func(c *config.Config) { c.Dialect = "postgres" })

	t.Run("replaced", func(t *testing.T) {
		out, _, err := execute(t, NewRulesCommand(), cfg, "", "--status", "replaced")
		require.NoError(t, err)

		assert.Contains(t, out, "Extends `ansi`.")
		assert.Contains(t, out, "- **DeleteStatementSegment** (`replaced`)")
		assert.NotContains(t, out, "**SelectStatementSegment**")
		assert.NotContains(t, out, "**ShorthandCastSegment**")
	})

	t.Run("inserted", func(t *testing.T) {
		out, _, err := execute(t, NewRulesCommand(), cfg, "", "--status", "inserted")
		require.NoError(t, err)

		assert.Contains(t, out, "- **ShorthandCastSegment** (`inserted`)")
		assert.NotContains(t, out, "(`replaced`)")
		assert.NotContains(t, out, "(`inherited`)")
	})

	t.Run("unknown status", func(t *testing.T) {
		_, _, err := execute(t, NewRulesCommand(), cfg, "", "--status", "removed")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown status")
	})
}

func TestRulesCommand_JSON(t *testing.T) {
	cfg := configWith(func(c *config.Config) {
		c.Dialect = "duckdb"
		c.Output = "json"
	})
	out, _, err := execute(t, NewRulesCommand(), cfg, "", "-g")
	require.NoError(t, err)

	var result RulesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "duckdb", result.Dialect)
	assert.Equal(t, "postgres", result.Parent)
	assert.Equal(t, len(result.Rules), result.Count.Total)
	assert.Equal(t, result.Count.Total, result.Count.Inherited+result.Count.Inserted+result.Count.Replaced)
	assert.Positive(t, result.Count.Inserted)
	assert.Positive(t, result.Count.Replaced)

	var qualify *RuleInfo
	for i := range result.Rules {
		if result.Rules[i].Name == "QualifyClauseSegment" {
			qualify = &result.Rules[i]
		}
	}
	require.NotNil(t, qualify)
	assert.Equal(t, "inserted", qualify.Status)
	assert.Contains(t, qualify.Grammar, "QUALIFY")
	assert.Equal(t, []string{"ExpressionSegment"}, qualify.References)
}

func TestRulesCommand_ShowRule(t *testing.T) {
	cfg := configWith(func(c *config.Config) { c.Dialect = "duckdb" })

	t.Run("markdown", func(t *testing.T) {
		out, _, err := execute(t, NewRulesCommand(), cfg, "", "QualifyClauseSegment")
		require.NoError(t, err)

		assert.Contains(t, out, "# QualifyClauseSegment")
		assert.Contains(t, out, "**Dialect:** duckdb | **Status:** `inserted`")
		assert.Contains(t, out, "```ebnf")
		assert.Contains(t, out, "- **References**: ExpressionSegment")
		assert.Contains(t, out, "- **Referenced by**: SelectStatementSegment")
		testutil.AssertValidMarkdown(t, out)
	})

	t.Run("json", func(t *testing.T) {
		cfg := configWith(func(c *config.Config) {
			c.Dialect = "duckdb"
			c.Output = "json"
		})
		out, _, err := execute(t, NewRulesCommand(), cfg, "", "QualifyClauseSegment")
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "QualifyClauseSegment", got["name"])
		assert.Equal(t, "duckdb", got["dialect"])
		assert.Contains(t, got["referenced_by"], "SelectStatementSegment")
	})

	t.Run("unknown rule", func(t *testing.T) {
		_, _, err := execute(t, NewRulesCommand(), cfg, "", "NoSuchSegment")
		assert.Error(t, err)
	})
}

func TestRulesCommand_Text(t *testing.T) {
	cmdCtx, tr := newTestContext(configWith(func(c *config.Config) { c.Dialect = "postgres" }), "text")
	d, err := cmdCtx.Dialect("")
	require.NoError(t, err)

	out := collectRules(d, &RulesOptions{Status: "inserted"})
	require.NoError(t, listRulesText(cmdCtx.Renderer, out, false))

	text := tr.Output()
	assert.Contains(t, text, "Postgres Rules (")
	assert.Contains(t, text, "extends ansi")
	assert.Contains(t, text, "ShorthandCastSegment")
	testutil.AssertNoANSI(t, text)
}

func TestReferrers(t *testing.T) {
	cmdCtx, _ := newTestContext(config.Default(), "markdown")
	d, err := cmdCtx.Dialect("")
	require.NoError(t, err)

	assert.Contains(t, referrers(d, "WhereClauseSegment"), "SelectStatementSegment")
	assert.Empty(t, referrers(d, "NoSuchSegment"))
}
