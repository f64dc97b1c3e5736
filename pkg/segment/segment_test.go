package segment

import (
	"bytes"
	"testing"

	"github.com/leapstack-labs/leapparse/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree assembles "f(a, b) ?" by hand:
//
//	root
//	  call
//	    identifier f
//	    bracket (
//	    identifier a
//	    delimiter ,
//	    whitespace
//	    identifier b
//	    bracket )
//	  whitespace
//	  unparsable
//	    symbol ?
func buildTree() *Segment {
	raws := []struct {
		kind token.Kind
		raw  string
	}{
		{token.Word, "f"}, {token.Symbol, "("}, {token.Word, "a"}, {token.Symbol, ","},
		{token.Whitespace, " "}, {token.Word, "b"}, {token.Symbol, ")"}, {token.Whitespace, " "},
		{token.Symbol, "?"},
	}
	toks := make([]token.Token, len(raws))
	pos := token.Position{Line: 1, Column: 1}
	for i, r := range raws {
		toks[i] = token.Token{Kind: r.kind, Raw: r.raw, Pos: pos}
		pos = pos.Advance(r.raw)
	}

	leaf := func(name string, kind Kind, i int) *Segment {
		return NewLeaf(name, kind, &toks[i], i)
	}

	call := NewNode("call", []*Segment{
		leaf("identifier", Code, 0),
		leaf("symbol", Bracket, 1),
		leaf("identifier", Code, 2),
		leaf("comma", Delimiter, 3),
		leaf("whitespace", NonCode, 4),
		leaf("identifier", Code, 5),
		leaf("symbol", Bracket, 6),
	}, 0, 7)
	bad := NewUnparsable([]*Segment{leaf("symbol", Code, 8)}, 8, 9)

	return NewNode("root", []*Segment{call, leaf("whitespace", NonCode, 7), bad}, 0, 9)
}

func TestRawIsLossless(t *testing.T) {
	root := buildTree()
	assert.Equal(t, "f(a, b) ?", root.Raw())
	assert.Equal(t, "f(a, b)", root.First("call").Raw())
}

func TestLeavesInOrder(t *testing.T) {
	leaves := buildTree().Leaves()
	require.Len(t, leaves, 9)
	for i, l := range leaves {
		assert.Equal(t, i, l.Start)
	}
}

func TestLogicalChildren(t *testing.T) {
	call := buildTree().First("call")

	logical := call.LogicalChildren()
	require.Len(t, logical, 3)
	for _, c := range logical {
		assert.Equal(t, "identifier", c.Name)
	}
	assert.Len(t, call.Children, 7)
}

func TestFindAndCount(t *testing.T) {
	root := buildTree()
	assert.Equal(t, 3, root.Count("identifier"))
	assert.Nil(t, root.First("missing"))
	assert.Same(t, root, root.First("root"))
}

func TestUnparsables(t *testing.T) {
	root := buildTree()
	assert.True(t, root.HasUnparsable())
	assert.False(t, root.First("call").HasUnparsable())

	spans := Unparsables(root)
	require.Len(t, spans, 1)
	assert.Equal(t, "?", spans[0].Raw)
	assert.Equal(t, 8, spans[0].Start)
	assert.Equal(t, 1, spans[0].Span.Start.Line)
	assert.Equal(t, 9, spans[0].Span.Start.Column)
	assert.Equal(t, `line 1, column 9: "?"`, spans[0].String())
}

func TestSpan(t *testing.T) {
	call := buildTree().First("call")
	span := call.Span()
	assert.Equal(t, 0, span.Start.Offset)
	assert.Equal(t, 7, span.End.Offset)

	empty := NewNode("empty", nil, 3, 3)
	assert.Equal(t, token.Span{}, empty.Span())
}

func TestWithKindCopies(t *testing.T) {
	root := buildTree()
	orig := root.First("identifier")

	relabelled := orig.WithKind(Delimiter)
	assert.Equal(t, Delimiter, relabelled.Kind)
	assert.Equal(t, Code, orig.Kind)
	assert.Same(t, orig, orig.WithKind(Code))
}

func TestToTree(t *testing.T) {
	tree := ToTree(buildTree(), TreeOptions{})

	want := map[string]any{"root": []any{
		map[string]any{"call": []any{
			map[string]any{"identifier": "f"},
			map[string]any{"symbol": "("},
			map[string]any{"identifier": "a"},
			map[string]any{"comma": ","},
			map[string]any{"identifier": "b"},
			map[string]any{"symbol": ")"},
		}},
		map[string]any{"unparsable": []any{
			map[string]any{"symbol": "?"},
		}},
	}}
	assert.Equal(t, want, tree)
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, buildTree(), TreeOptions{}))

	out := buf.String()
	assert.Contains(t, out, "root:")
	assert.Contains(t, out, `identifier: "f"`)
	assert.Contains(t, out, "unparsable: !!")
	assert.NotContains(t, out, "whitespace")
}
