package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindIsCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{Word, true},
		{Number, true},
		{String, true},
		{QuotedIdent, true},
		{Symbol, true},
		{Unknown, true},
		{Whitespace, false},
		{Newline, false},
		{Comment, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsCode())
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "quoted_identifier", QuotedIdent.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestPositionAdvance(t *testing.T) {
	start := Position{Line: 1, Column: 1, Offset: 0}

	p := start.Advance("select")
	assert.Equal(t, Position{Line: 1, Column: 7, Offset: 6}, p)

	p = p.Advance("\n  ")
	assert.Equal(t, Position{Line: 2, Column: 3, Offset: 9}, p)
}

func TestTokenSpan(t *testing.T) {
	tok := Token{Kind: Comment, Raw: "/* a\nb */", Pos: Position{Line: 3, Column: 5, Offset: 20}}

	span := tok.Span()
	assert.Equal(t, 20, span.Start.Offset)
	assert.Equal(t, 29, span.End.Offset)
	assert.Equal(t, 4, span.End.Line)
	assert.Equal(t, 9, span.Len())
	assert.True(t, span.Contains(25))
	assert.False(t, span.Contains(29))
}
