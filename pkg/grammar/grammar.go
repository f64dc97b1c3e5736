// Package grammar defines the structural combinators dialect rules are built from.
//
// A Grammar is a closed sum type: the set of implementations is fixed by this
// package and the matcher switches over it exhaustively. Grammars are plain
// immutable values. Rules refer to each other by name through Ref, so cyclic
// and mutually recursive definitions need no object graph; references are
// resolved against a dialect's rule table at match time.
//
// Rules whose name ends in "Grammar" are transparent: the matcher splices
// their children into the enclosing node instead of wrapping them in a node
// of their own. Every other rule produces a named segment.
package grammar

import (
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

// Unbounded is the AnyNumberOf maximum meaning "no upper limit".
const Unbounded = -1

// Grammar is a structural rule describing how to consume tokens.
type Grammar interface {
	isGrammar()
}

// Ref is a lazy reference to another rule by name.
type Ref struct {
	Name string
}

// Sequence matches its items in order. Non-code tokens between items are
// skipped and kept as leaves.
type Sequence struct {
	Items []Grammar
}

// Optional marks an element that may match nothing.
type Optional struct {
	Inner Grammar
}

// OneOf tries every option and keeps the longest clean match.
// Ties are broken by declaration order.
type OneOf struct {
	Options []Grammar
}

// AnyNumberOf greedily repeats Inner between Min and Max times.
type AnyNumberOf struct {
	Inner Grammar
	Min   int
	Max   int // Unbounded for no limit
}

// BracketMode controls what happens to tokens the content leaves unmatched.
type BracketMode uint8

const (
	// Strict fails the bracket unless the content reaches the close token.
	Strict BracketMode = iota
	// Greedy keeps unmatched tokens before the close as an unparsable child.
	Greedy
)

// Bracketed matches Open, optional Content, then Close.
// A nil Content means the brackets must be empty.
type Bracketed struct {
	Open    Grammar
	Content Grammar
	Close   Grammar
	Mode    BracketMode
}

// Delimited matches Content separated by Delimiter, at least Min times.
type Delimited struct {
	Content       Grammar
	Delimiter     Grammar
	AllowTrailing bool
	Min           int
}

// Keyword matches a single word token case-insensitively.
type Keyword struct {
	Word string
}

// Symbol matches a code token whose raw text equals Text exactly.
type Symbol struct {
	Text string
	Name string // leaf name; defaults to "symbol"
}

// Class matches any single token of the given kind.
type Class struct {
	Kind token.Kind
	Name string // leaf name; defaults to the kind name
	// NonReserved rejects words the active dialect reserves.
	NonReserved bool
}

func (Ref) isGrammar()         {}
func (Sequence) isGrammar()    {}
func (Optional) isGrammar()    {}
func (OneOf) isGrammar()       {}
func (AnyNumberOf) isGrammar() {}
func (Bracketed) isGrammar()   {}
func (Delimited) isGrammar()   {}
func (Keyword) isGrammar()     {}
func (Symbol) isGrammar()      {}
func (Class) isGrammar()       {}

// IsTransparent reports whether a rule name denotes a transparent (inlined) rule.
func IsTransparent(rule string) bool {
	return strings.HasSuffix(rule, "Grammar")
}

// ---------- Constructors ----------

// R references a rule by name.
func R(name string) Grammar {
	return Ref{Name: name}
}

// Seq builds a Sequence.
func Seq(items ...Grammar) Grammar {
	return Sequence{Items: items}
}

// Opt marks g as optional.
func Opt(g Grammar) Grammar {
	return Optional{Inner: g}
}

// OptSeq is shorthand for an optional sequence.
func OptSeq(items ...Grammar) Grammar {
	return Optional{Inner: Sequence{Items: items}}
}

// Any builds a OneOf.
func Any(options ...Grammar) Grammar {
	return OneOf{Options: options}
}

// Many matches g zero or more times.
func Many(g Grammar) Grammar {
	return AnyNumberOf{Inner: g, Max: Unbounded}
}

// AtLeast matches g at least n times.
func AtLeast(n int, g Grammar) Grammar {
	return AnyNumberOf{Inner: g, Min: n, Max: Unbounded}
}

// Between matches g between lo and hi times.
func Between(lo, hi int, g Grammar) Grammar {
	return AnyNumberOf{Inner: g, Min: lo, Max: hi}
}

// Parens brackets content with "(" and ")".
func Parens(content Grammar) Grammar {
	return Bracketed{Open: Sym("("), Content: content, Close: Sym(")")}
}

// GreedyParens is Parens that keeps stray tokens before ")" as an unparsable
// child instead of failing.
func GreedyParens(content Grammar) Grammar {
	return Bracketed{Open: Sym("("), Content: content, Close: Sym(")"), Mode: Greedy}
}

// Square brackets content with "[" and "]".
func Square(content Grammar) Grammar {
	return Bracketed{Open: Sym("["), Content: content, Close: Sym("]")}
}

// Braces brackets content with "{" and "}".
func Braces(content Grammar) Grammar {
	return Bracketed{Open: Sym("{"), Content: content, Close: Sym("}")}
}

// CSV delimits content by commas, requiring at least one element.
func CSV(content Grammar) Grammar {
	return Delimited{Content: content, Delimiter: Sym(","), Min: 1}
}

// CSVTrailing is CSV allowing a trailing comma.
func CSVTrailing(content Grammar) Grammar {
	return Delimited{Content: content, Delimiter: Sym(","), AllowTrailing: true, Min: 1}
}

// Kw matches a keyword.
func Kw(word string) Grammar {
	return Keyword{Word: word}
}

// Kws matches a run of keywords in order, e.g. Kws("ORDER", "BY").
func Kws(words ...string) Grammar {
	items := make([]Grammar, len(words))
	for i, w := range words {
		items[i] = Keyword{Word: w}
	}
	if len(items) == 1 {
		return items[0]
	}
	return Sequence{Items: items}
}

// AnyKw matches any one of the given keywords.
func AnyKw(words ...string) Grammar {
	options := make([]Grammar, len(words))
	for i, w := range words {
		options[i] = Keyword{Word: w}
	}
	return OneOf{Options: options}
}

// Sym matches an exact symbol.
func Sym(text string) Grammar {
	return Symbol{Text: text}
}

// NamedSym matches an exact symbol and names the leaf.
func NamedSym(text, name string) Grammar {
	return Symbol{Text: text, Name: name}
}

// Tok matches any token of a kind, naming the leaf.
func Tok(kind token.Kind, name string) Grammar {
	return Class{Kind: kind, Name: name}
}

// Ident matches a word the dialect does not reserve.
func Ident(name string) Grammar {
	return Class{Kind: token.Word, Name: name, NonReserved: true}
}
