package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/leapstack-labs/leapparse/pkg/segment"
	"github.com/spf13/cobra"
)

// MatchDoc is the structured output of the match command.
type MatchDoc struct {
	Dialect string         `json:"dialect" yaml:"dialect"`
	Rule    string         `json:"rule" yaml:"rule"`
	Matched bool           `json:"matched" yaml:"matched"`
	Tree    map[string]any `json:"tree,omitempty" yaml:"tree,omitempty"`
	Error   *MatchFailure  `json:"error,omitempty" yaml:"error,omitempty"`
}

// MatchFailure locates where a strict match stopped.
type MatchFailure struct {
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column  int    `json:"column,omitempty" yaml:"column,omitempty"`
	Near    string `json:"near,omitempty" yaml:"near,omitempty"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <rule> [sql]",
		Short: "Strictly match SQL against a single rule",
		Long: `Match SQL against one grammar rule of the dialect.

Unlike parse, match succeeds only when the rule accounts for the whole input.
On failure the furthest position reached is reported. SQL is read from the
second argument, or from standard input when it is omitted.`,
		Example: `  # Check an expression
  leapparse match ExpressionSegment "a + b * 2"

  # Check a statement from stdin with the duckdb dialect
  echo "SELECT * EXCLUDE (a) FROM t" | leapparse match -d duckdb StatementSegment`,
		Args: cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeRules(cmd), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: runMatch,
	}
	return cmd
}

func runMatch(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	ctx, cancel := cmdCtx.WithTimeout(cmd.Context())
	defer cancel()

	p, err := cmdCtx.Parser("")
	if err != nil {
		return err
	}

	rule := args[0]
	var src string
	if len(args) == 2 {
		src = args[1]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		src = strings.TrimRight(string(data), "\r\n")
	}

	tree, matchErr := p.Match(ctx, rule, p.Tokenize(src))

	var me *parser.MatchError
	if matchErr != nil && !errors.As(matchErr, &me) {
		return matchErr
	}

	if r.IsStructured() {
		doc := MatchDoc{Dialect: p.Dialect().Name(), Rule: rule, Matched: matchErr == nil}
		if me != nil {
			doc.Error = &MatchFailure{Message: me.Error(), Line: me.Pos.Line, Column: me.Pos.Column, Near: me.Near}
		} else {
			doc.Tree = segment.ToTree(tree, cmdCtx.TreeOptions())
		}
		if err := r.Data(doc); err != nil {
			return err
		}
		return matchErr
	}

	if me != nil {
		r.Error(fmt.Sprintf("%s does not match", rule))
		r.Println(pointAt(src, me))
		return matchErr
	}

	if err := r.Tree(tree, cmdCtx.TreeOptions()); err != nil {
		return err
	}
	r.Success(fmt.Sprintf("%s matches", rule))
	return nil
}

// pointAt renders the source line of a match failure with a caret below the
// failing column.
func pointAt(src string, me *parser.MatchError) string {
	lines := strings.Split(src, "\n")
	if me.Pos.Line < 1 || me.Pos.Line > len(lines) {
		return me.Error()
	}
	line := lines[me.Pos.Line-1]
	col := max(me.Pos.Column, 1)
	prefix := fmt.Sprintf("%4d | ", me.Pos.Line)
	return fmt.Sprintf("%s%s\n%s^ %s", prefix, line,
		strings.Repeat(" ", len(prefix)+col-1), me.Error())
}
