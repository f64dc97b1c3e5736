package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapparse/internal/cli/config"
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		stdin      string
		wantErr    error
		wantOut    []string
		wantErrOut string
	}{
		{
			name:    "expression argument",
			args:    []string{"ExpressionSegment", "a + b * 2"},
			wantOut: []string{"ExpressionSegment:", "- ExpressionSegment matches"},
		},
		{
			name:    "statement from stdin",
			args:    []string{"StatementSegment"},
			stdin:   "SELECT a FROM t;\n",
			wantOut: []string{"SelectStatementSegment:"},
		},
		{
			name:       "trailing garbage",
			args:       []string{"ExpressionSegment", "a + b c"},
			wantErr:    parser.ErrNoMatch,
			wantOut:    []string{"   1 | a + b c", "^ ExpressionSegment: no match at line 1, column 7"},
			wantErrOut: "ExpressionSegment does not match",
		},
		{
			name:    "incomplete input",
			args:    []string{"ExpressionSegment", "a +"},
			wantErr: parser.ErrNoMatch,
			wantOut: []string{"end of input"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := execute(t, NewMatchCommand(), config.Default(), tt.stdin, tt.args...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
			if tt.wantErrOut != "" {
				assert.Contains(t, errOut, tt.wantErrOut)
			}
		})
	}
}

func TestMatchCommand_UnknownRule(t *testing.T) {
	_, _, err := execute(t, NewMatchCommand(), config.Default(), "", "NoSuchSegment", "a")
	require.Error(t, err)
	assert.NotErrorIs(t, err, parser.ErrNoMatch)
}

func TestMatchCommand_JSON(t *testing.T) {
	cfg := configWith(func(c *config.Config) {
		c.Output = "json"
		c.Dialect = "postgres"
	})

	t.Run("matched", func(t *testing.T) {
		out, _, err := execute(t, NewMatchCommand(), cfg, "", "ExpressionSegment", "a::int")
		require.NoError(t, err)

		var doc MatchDoc
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.True(t, doc.Matched)
		assert.Equal(t, "postgres", doc.Dialect)
		assert.Contains(t, doc.Tree, "ExpressionSegment")
		assert.Nil(t, doc.Error)
	})

	t.Run("failed", func(t *testing.T) {
		out, _, err := execute(t, NewMatchCommand(), cfg, "", "ExpressionSegment", "a b")
		assert.ErrorIs(t, err, parser.ErrNoMatch)

		var doc MatchDoc
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.False(t, doc.Matched)
		require.NotNil(t, doc.Error)
		assert.Equal(t, 1, doc.Error.Line)
		assert.Equal(t, 3, doc.Error.Column)
		assert.Equal(t, "b", doc.Error.Near)
		assert.Nil(t, doc.Tree)
	})
}

func TestPointAt(t *testing.T) {
	src := "SELECT a\nFROM t t2 t3"
	me := &parser.MatchError{Rule: "StatementSegment", Near: "t3"}
	me.Pos.Line, me.Pos.Column = 2, 11

	got := pointAt(src, me)
	assert.Equal(t, "   2 | FROM t t2 t3\n"+strings.Repeat(" ", 17)+"^ "+me.Error(), got)

	me.Pos.Line = 9
	assert.Equal(t, me.Error(), pointAt(src, me), "out of range lines fall back to the message")
}
