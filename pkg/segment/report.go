package segment

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

// UnparsableSpan describes one region of input the parser could not match.
type UnparsableSpan struct {
	Span  token.Span
	Raw   string
	Start int // first token index
	End   int // one past the last token index
}

func (u UnparsableSpan) String() string {
	return fmt.Sprintf("line %d, column %d: %q", u.Span.Start.Line, u.Span.Start.Column, u.Raw)
}

// Unparsables lists the unparsable regions under s in source order.
// Nested unparsable segments are reported once, by their outermost ancestor.
func Unparsables(s *Segment) []UnparsableSpan {
	var spans []UnparsableSpan
	s.Walk(func(n *Segment) bool {
		if !n.Unparsable {
			return true
		}
		spans = append(spans, UnparsableSpan{
			Span:  n.Span(),
			Raw:   n.Raw(),
			Start: n.Start,
			End:   n.End,
		})
		return false
	})
	return spans
}

// TreeOptions controls ToTree and Dump.
type TreeOptions struct {
	// IncludeNonCode keeps whitespace, newline and comment leaves.
	IncludeNonCode bool
}

// ToTree converts s into nested maps and slices suitable for JSON or YAML
// encoding. A node becomes {name: [children...]}, a leaf {name: raw}.
func ToTree(s *Segment, opts TreeOptions) map[string]any {
	if s.IsLeaf() {
		return map[string]any{s.Name: s.Token.Raw}
	}
	children := make([]any, 0, len(s.Children))
	for _, c := range s.Children {
		if !opts.IncludeNonCode && !c.IsCode() {
			continue
		}
		children = append(children, ToTree(c, opts))
	}
	return map[string]any{s.Name: children}
}

// Dump writes an indented text rendering of s, one segment per line.
func Dump(w io.Writer, s *Segment, opts TreeOptions) error {
	return dump(w, s, 0, opts)
}

func dump(w io.Writer, s *Segment, depth int, opts TreeOptions) error {
	if !opts.IncludeNonCode && !s.IsCode() {
		return nil
	}
	pos := s.Span().Start
	indent := strings.Repeat("    ", depth)
	var err error
	if s.IsLeaf() {
		_, err = fmt.Fprintf(w, "[L:%3d, P:%3d] %s%s: %q\n", pos.Line, pos.Column, indent, s.Name, s.Token.Raw)
	} else {
		marker := ""
		if s.Unparsable {
			marker = " !!"
		}
		_, err = fmt.Fprintf(w, "[L:%3d, P:%3d] %s%s:%s\n", pos.Line, pos.Column, indent, s.Name, marker)
	}
	if err != nil {
		return err
	}
	for _, c := range s.Children {
		if err := dump(w, c, depth+1, opts); err != nil {
			return err
		}
	}
	return nil
}
