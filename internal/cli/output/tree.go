package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/segment"
)

// TreeDoc is the structured form of one parse result.
type TreeDoc struct {
	Source     string          `json:"source,omitempty" yaml:"source,omitempty"`
	Dialect    string          `json:"dialect" yaml:"dialect"`
	Statements int             `json:"statements" yaml:"statements"`
	Unparsable []UnparsableDoc `json:"unparsable,omitempty" yaml:"unparsable,omitempty"`
	Tree       map[string]any  `json:"tree,omitempty" yaml:"tree,omitempty"`
	Error      string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// UnparsableDoc is the structured form of one unparsable region.
type UnparsableDoc struct {
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Raw    string `json:"raw" yaml:"raw"`
}

// NewUnparsableDocs converts spans for structured output.
func NewUnparsableDocs(spans []segment.UnparsableSpan) []UnparsableDoc {
	docs := make([]UnparsableDoc, 0, len(spans))
	for _, s := range spans {
		docs = append(docs, UnparsableDoc{Line: s.Span.Start.Line, Column: s.Span.Start.Column, Raw: s.Raw})
	}
	return docs
}

// Tree writes a parse tree. Text mode colors rule names and flags unparsable
// nodes; markdown fences the same dump.
func (r *Renderer) Tree(tree *segment.Segment, opts segment.TreeOptions) error {
	switch r.EffectiveMode() {
	case ModeJSON, ModeYAML:
		return r.Data(segment.ToTree(tree, opts))
	}

	var buf bytes.Buffer
	if err := segment.Dump(&buf, tree, opts); err != nil {
		return err
	}
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatCode("", buf.String()))
		return nil
	}

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		r.Println(r.styleDumpLine(line))
	}
	return nil
}

// styleDumpLine colors one line of segment.Dump output: the position prefix
// is muted, unparsable nodes are errors, leaves and rules get their own color.
func (r *Renderer) styleDumpLine(line string) string {
	end := strings.Index(line, "]")
	if end < 0 {
		return line
	}
	prefix, rest := line[:end+1], line[end+1:]
	body := strings.TrimLeft(rest, " ")
	indent := rest[:len(rest)-len(body)]

	switch {
	case strings.HasSuffix(body, " !!"):
		body = r.styles.Error.Render(body)
	case strings.HasSuffix(body, ":"):
		body = r.styles.Rule.Render(body)
	default:
		if i := strings.Index(body, ": "); i >= 0 {
			body = r.styles.Leaf.Render(body[:i+1]) + body[i+1:]
		}
	}
	return r.styles.Muted.Render(prefix) + indent + body
}

// Unparsable writes a report of unparsable regions for one source.
func (r *Renderer) Unparsable(source string, spans []segment.UnparsableSpan) {
	if len(spans) == 0 {
		return
	}
	title := fmt.Sprintf("%d unparsable region(s)", len(spans))
	if source != "" {
		title = source + ": " + title
	}
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(3, title))
	} else {
		r.Println(r.styles.Warning.Render(title))
	}

	rows := make([][]string, 0, len(spans))
	for _, s := range spans {
		rows = append(rows, []string{
			strconv.Itoa(s.Span.Start.Line),
			strconv.Itoa(s.Span.Start.Column),
			truncate(s.Raw, 60),
		})
	}
	r.Table([]string{"Line", "Column", "Text"}, rows)
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
