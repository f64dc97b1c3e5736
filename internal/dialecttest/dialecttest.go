// Package dialecttest provides assertions for testing dialect grammars
// rule by rule.
package dialecttest

import (
	"context"
	"testing"

	"github.com/leapstack-labs/leapparse/internal/testutil"
	"github.com/leapstack-labs/leapparse/pkg/dialect"
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/leapstack-labs/leapparse/pkg/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewParser loads the named dialect and returns a parser logging to t.
func NewParser(t testing.TB, dialectName string) *parser.Parser {
	t.Helper()
	d, err := dialect.Load(dialectName)
	require.NoError(t, err, "loading dialect %s", dialectName)
	return parser.New(d, parser.WithLogger(testutil.NewTestLogger(t)))
}

// SegmentParses asserts that raw parses as exactly one rule segment with no
// unparsable content and that the tree reproduces raw byte for byte. It
// returns the rule's segment.
func SegmentParses(t testing.TB, dialectName, rule, raw string) *segment.Segment {
	t.Helper()
	p := NewParser(t, dialectName)

	tree, err := p.ParseRule(context.Background(), rule, p.Tokenize(raw))
	require.NoError(t, err)
	require.NotNil(t, tree)

	assert.Equal(t, raw, tree.Raw(), "tree must reproduce the input")
	assert.Empty(t, segment.Unparsables(tree), "unexpected unparsable input in %q", raw)

	matches := children(tree, rule)
	require.Len(t, matches, 1, "expected one %s in %q", rule, raw)
	return matches[0]
}

// SegmentNotMatch asserts that raw does not strictly match rule and that a
// best-effort parse of raw yields wantStatements top-level rule segments.
func SegmentNotMatch(t testing.TB, dialectName, rule, raw string, wantStatements int) {
	t.Helper()
	p := NewParser(t, dialectName)
	toks := p.Tokenize(raw)

	_, err := p.Match(context.Background(), rule, toks)
	require.ErrorIs(t, err, parser.ErrNoMatch, "%q unexpectedly matched %s", raw, rule)

	tree, err := p.ParseRule(context.Background(), rule, toks)
	require.NoError(t, err)
	assert.Equal(t, raw, tree.Raw(), "tree must reproduce the input")
	assert.Len(t, children(tree, rule), wantStatements)
}

// SegmentMatches asserts that raw strictly matches rule and returns the segment.
func SegmentMatches(t testing.TB, dialectName, rule, raw string) *segment.Segment {
	t.Helper()
	p := NewParser(t, dialectName)
	seg, err := p.Match(context.Background(), rule, p.Tokenize(raw))
	require.NoError(t, err, "%q should match %s", raw, rule)
	return seg
}

func children(tree *segment.Segment, name string) []*segment.Segment {
	var out []*segment.Segment
	for _, c := range tree.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
