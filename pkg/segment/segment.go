// Package segment defines the lossless parse tree produced by the parser.
//
// Every token of the input appears exactly once as a leaf, in source order.
// Interior nodes are named after the rule that produced them.
package segment

import (
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

// Kind classifies the role a segment plays in its parent.
type Kind uint8

const (
	// Node is an interior segment produced by a rule.
	Node Kind = iota
	// Code is a leaf holding a token with syntactic meaning.
	Code
	// NonCode is a whitespace, newline or comment leaf.
	NonCode
	// Delimiter is a separator consumed by a delimited list.
	Delimiter
	// Bracket is an opening or closing bracket.
	Bracket
)

// UnparsableName is the name given to segments the parser could not account for.
const UnparsableName = "unparsable"

// Segment is a node in the parse tree.
type Segment struct {
	Name     string
	Kind     Kind
	Token    *token.Token // set on leaves only
	Children []*Segment
	// Unparsable marks a span the grammar could not match.
	Unparsable bool
	// Start and End are token indices: the segment covers tokens [Start, End).
	Start int
	End   int
}

// NewLeaf creates a leaf segment for the token at index i.
func NewLeaf(name string, kind Kind, tok *token.Token, i int) *Segment {
	return &Segment{Name: name, Kind: kind, Token: tok, Start: i, End: i + 1}
}

// NewNode creates an interior segment over [start, end).
func NewNode(name string, children []*Segment, start, end int) *Segment {
	return &Segment{Name: name, Kind: Node, Children: children, Start: start, End: end}
}

// NewUnparsable wraps children covering [start, end) as an unparsable segment.
func NewUnparsable(children []*Segment, start, end int) *Segment {
	return &Segment{
		Name:       UnparsableName,
		Kind:       Node,
		Children:   children,
		Unparsable: true,
		Start:      start,
		End:        end,
	}
}

// WithKind returns a shallow copy of s with a different kind.
// Segments may be shared by memoized matches, so they are never relabelled in place.
func (s *Segment) WithKind(k Kind) *Segment {
	if s.Kind == k {
		return s
	}
	cp := *s
	cp.Kind = k
	return &cp
}

// IsLeaf reports whether the segment holds a single token.
func (s *Segment) IsLeaf() bool {
	return s.Token != nil
}

// IsCode reports whether the segment contains syntax rather than trivia.
func (s *Segment) IsCode() bool {
	if s.IsLeaf() {
		return s.Token.IsCode()
	}
	return s.Kind != NonCode
}

// Len returns the number of tokens covered.
func (s *Segment) Len() int {
	return s.End - s.Start
}

// Raw returns the exact source text covered by the segment.
func (s *Segment) Raw() string {
	var b strings.Builder
	s.writeRaw(&b)
	return b.String()
}

func (s *Segment) writeRaw(b *strings.Builder) {
	if s.IsLeaf() {
		b.WriteString(s.Token.Raw)
		return
	}
	for _, c := range s.Children {
		c.writeRaw(b)
	}
}

// Leaves returns every leaf under s in source order.
func (s *Segment) Leaves() []*Segment {
	var leaves []*Segment
	s.Walk(func(n *Segment) bool {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
		return true
	})
	return leaves
}

// Walk visits s and its descendants depth first, in source order.
// Returning false from fn skips the children of that segment.
func (s *Segment) Walk(fn func(*Segment) bool) {
	if !fn(s) {
		return
	}
	for _, c := range s.Children {
		c.Walk(fn)
	}
}

// Find returns every segment under s (s included) with the given name.
func (s *Segment) Find(name string) []*Segment {
	var found []*Segment
	s.Walk(func(n *Segment) bool {
		if n.Name == name {
			found = append(found, n)
		}
		return true
	})
	return found
}

// First returns the first segment under s (s included) with the given name, or nil.
func (s *Segment) First(name string) *Segment {
	var found *Segment
	s.Walk(func(n *Segment) bool {
		if found != nil {
			return false
		}
		if n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// Count returns the number of segments under s (s included) with the given name.
func (s *Segment) Count(name string) int {
	return len(s.Find(name))
}

// HasUnparsable reports whether any segment under s is unparsable.
func (s *Segment) HasUnparsable() bool {
	found := false
	s.Walk(func(n *Segment) bool {
		if n.Unparsable {
			found = true
		}
		return !found
	})
	return found
}

// LogicalChildren returns the children that carry content: trivia, delimiters
// and brackets are excluded.
func (s *Segment) LogicalChildren() []*Segment {
	var out []*Segment
	for _, c := range s.Children {
		switch c.Kind {
		case NonCode, Delimiter, Bracket:
			continue
		}
		if c.IsLeaf() && !c.Token.IsCode() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Span returns the source range covered by the segment.
// An empty segment returns the zero span.
func (s *Segment) Span() token.Span {
	leaves := s.Leaves()
	if len(leaves) == 0 {
		return token.Span{}
	}
	return token.Span{
		Start: leaves[0].Token.Pos,
		End:   leaves[len(leaves)-1].Token.End(),
	}
}
