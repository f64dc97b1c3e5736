// Package token defines the lexical tokens consumed by the grammar engine.
//
// Tokens are classified into a small set of kinds rather than one type per
// keyword: whether a word acts as a keyword is decided by the grammar and the
// active dialect at match time, not by the lexer.
package token

import "fmt"

// Kind classifies a token lexically.
type Kind uint8

const (
	// Unknown is a byte the lexer could not classify. It is still emitted so
	// the token stream stays lossless.
	Unknown Kind = iota
	// Word is an unquoted identifier or keyword candidate.
	Word
	// Number is a numeric literal (123, 45.67, 1e10).
	Number
	// String is a single-quoted string literal, quotes included.
	String
	// QuotedIdent is a double-quoted identifier, quotes included.
	QuotedIdent
	// Symbol is an operator or punctuation sequence.
	Symbol
	// Whitespace is a run of spaces and tabs.
	Whitespace
	// Newline is a single line break (\n or \r\n).
	Newline
	// Comment is a line (--) or block (/* */) comment.
	Comment
)

var kindNames = [...]string{
	Unknown:     "unknown",
	Word:        "word",
	Number:      "number",
	String:      "string",
	QuotedIdent: "quoted_identifier",
	Symbol:      "symbol",
	Whitespace:  "whitespace",
	Newline:     "newline",
	Comment:     "comment",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// IsCode reports whether tokens of this kind carry syntax.
// Whitespace, newlines and comments do not.
func (k Kind) IsCode() bool {
	switch k {
	case Whitespace, Newline, Comment:
		return false
	default:
		return true
	}
}

// Token is a lexed token with its exact source text.
type Token struct {
	Kind Kind
	Raw  string
	Pos  Position
}

// IsCode reports whether the token carries syntax.
func (t Token) IsCode() bool {
	return t.Kind.IsCode()
}

// End returns the position immediately after the token.
func (t Token) End() Position {
	return t.Pos.Advance(t.Raw)
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: t.End()}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Raw, t.Pos.Line, t.Pos.Column)
}
