package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

// Walk calls fn for g and every grammar nested inside it, depth first.
// Refs are reported but not followed.
func Walk(g Grammar, fn func(Grammar)) {
	if g == nil {
		return
	}
	fn(g)

	switch g := g.(type) {
	case Sequence:
		for _, item := range g.Items {
			Walk(item, fn)
		}
	case Optional:
		Walk(g.Inner, fn)
	case OneOf:
		for _, opt := range g.Options {
			Walk(opt, fn)
		}
	case AnyNumberOf:
		Walk(g.Inner, fn)
	case Bracketed:
		Walk(g.Open, fn)
		Walk(g.Content, fn)
		Walk(g.Close, fn)
	case Delimited:
		Walk(g.Content, fn)
		Walk(g.Delimiter, fn)
	case Ref, Keyword, Symbol, Class:
	default:
		panic(fmt.Sprintf("grammar: unhandled variant %T", g))
	}
}

// Refs returns the distinct rule names referenced by g, in first-seen order.
func Refs(g Grammar) []string {
	seen := make(map[string]struct{})
	var names []string
	Walk(g, func(n Grammar) {
		if ref, ok := n.(Ref); ok {
			if _, dup := seen[ref.Name]; !dup {
				seen[ref.Name] = struct{}{}
				names = append(names, ref.Name)
			}
		}
	})
	return names
}

// Describe renders g in a compact, EBNF-like notation.
func Describe(g Grammar) string {
	var b strings.Builder
	describe(&b, g)
	return b.String()
}

func describe(b *strings.Builder, g Grammar) {
	switch g := g.(type) {
	case nil:
		b.WriteString("ε")
	case Ref:
		b.WriteString(g.Name)
	case Keyword:
		b.WriteString(strings.ToUpper(g.Word))
	case Symbol:
		b.WriteString(strconv.Quote(g.Text))
	case Class:
		b.WriteString("<")
		if g.Name != "" {
			b.WriteString(g.Name)
		} else {
			b.WriteString(g.Kind.String())
		}
		b.WriteString(">")
	case Sequence:
		b.WriteString("(")
		for i, item := range g.Items {
			if i > 0 {
				b.WriteString(" ")
			}
			describe(b, item)
		}
		b.WriteString(")")
	case Optional:
		b.WriteString("[")
		describe(b, g.Inner)
		b.WriteString("]")
	case OneOf:
		b.WriteString("(")
		for i, opt := range g.Options {
			if i > 0 {
				b.WriteString(" | ")
			}
			describe(b, opt)
		}
		b.WriteString(")")
	case AnyNumberOf:
		b.WriteString("{")
		describe(b, g.Inner)
		b.WriteString("}")
		switch {
		case g.Min == 0 && g.Max == Unbounded:
		case g.Max == Unbounded:
			fmt.Fprintf(b, "%d..", g.Min)
		default:
			fmt.Fprintf(b, "%d..%d", g.Min, g.Max)
		}
	case Bracketed:
		describe(b, g.Open)
		b.WriteString(" ")
		describe(b, g.Content)
		b.WriteString(" ")
		describe(b, g.Close)
	case Delimited:
		b.WriteString("{")
		describe(b, g.Content)
		b.WriteString(" / ")
		describe(b, g.Delimiter)
		if g.AllowTrailing {
			b.WriteString(" trailing")
		}
		b.WriteString("}")
	default:
		panic(fmt.Sprintf("grammar: unhandled variant %T", g))
	}
}
