// Package lexer turns SQL source text into a lossless stream of classified tokens.
//
// The lexer never fails: unterminated strings and comments run to the end of
// the input and unrecognised bytes become token.Unknown tokens. Concatenating
// the Raw text of every token reproduces the input exactly.
package lexer

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

// defaultSymbols are the multi-character operators every dialect shares.
var defaultSymbols = []string{"<=", ">=", "<>", "!=", "||"}

// Option configures a Lexer.
type Option func(*Lexer)

// WithSymbols registers additional multi-character symbols, such as "::" or "->".
// The longest registered symbol wins at any position.
func WithSymbols(symbols ...string) Option {
	return func(l *Lexer) {
		l.symbols = append(l.symbols, symbols...)
	}
}

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int            // byte offset of the next unread character
	cur     token.Position // position of the next token
	symbols []string       // sorted longest first
}

// New creates a Lexer for the given input.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{
		input:   input,
		cur:     token.Position{Line: 1, Column: 1, Offset: 0},
		symbols: append([]string(nil), defaultSymbols...),
	}
	for _, opt := range opts {
		opt(l)
	}
	sort.SliceStable(l.symbols, func(i, j int) bool {
		return len(l.symbols[i]) > len(l.symbols[j])
	})
	return l
}

// Tokenize returns every token of the input in order.
func Tokenize(input string, opts ...Option) []token.Token {
	l := New(input, opts...)
	var tokens []token.Token
	for {
		tok, ok := l.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token. It returns false once the input is exhausted.
func (l *Lexer) Next() (token.Token, bool) {
	if l.pos >= len(l.input) {
		return token.Token{}, false
	}

	start := l.pos
	kind := l.scan()
	if l.pos == start {
		// Every branch of scan consumes at least one byte; this guards the loop.
		l.pos++
		kind = token.Unknown
	}

	tok := token.Token{Kind: kind, Raw: l.input[start:l.pos], Pos: l.cur}
	l.cur = l.cur.Advance(tok.Raw)
	return tok, true
}

// scan consumes one token and returns its kind.
func (l *Lexer) scan() token.Kind {
	ch := l.input[l.pos]

	switch {
	case ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v':
		for l.pos < len(l.input) && isBlank(l.input[l.pos]) {
			l.pos++
		}
		return token.Whitespace
	case ch == '\n':
		l.pos++
		return token.Newline
	case ch == '\r':
		l.pos++
		if l.peek(0) == '\n' {
			l.pos++
		}
		return token.Newline
	case ch == '-' && l.peek(1) == '-':
		l.readLineComment()
		return token.Comment
	case ch == '/' && l.peek(1) == '*':
		l.readBlockComment()
		return token.Comment
	case ch == '\'':
		l.readQuoted('\'')
		return token.String
	case ch == '"':
		l.readQuoted('"')
		return token.QuotedIdent
	case isDigit(ch) || (ch == '.' && isDigit(l.peek(1))):
		l.readNumber()
		return token.Number
	case isIdentStart(l.input[l.pos:]):
		l.readWord()
		return token.Word
	}

	if sym := l.matchSymbol(); sym != "" {
		l.pos += len(sym)
		return token.Symbol
	}

	if strings.ContainsRune("+-*/%=<>!|&^~#@?:;,.()[]{}$\\", rune(ch)) {
		l.pos++
		return token.Symbol
	}

	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	return token.Unknown
}

// peek returns the byte n positions after the current one, or 0 past the end.
func (l *Lexer) peek(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// matchSymbol returns the longest registered symbol at the current position.
func (l *Lexer) matchSymbol() string {
	remaining := l.input[l.pos:]
	for _, sym := range l.symbols {
		if strings.HasPrefix(remaining, sym) {
			return sym
		}
	}
	return ""
}

// readLineComment consumes a -- comment up to, but excluding, the line break.
func (l *Lexer) readLineComment() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' && l.input[l.pos] != '\r' {
		l.pos++
	}
}

// readBlockComment consumes a /* */ comment. Nested comments are not supported.
func (l *Lexer) readBlockComment() {
	l.pos += 2
	end := strings.Index(l.input[l.pos:], "*/")
	if end < 0 {
		l.pos = len(l.input)
		return
	}
	l.pos += end + 2
}

// readQuoted consumes a quoted literal; a doubled quote is an escape ('it''s').
func (l *Lexer) readQuoted(quote byte) {
	l.pos++ // opening quote
	for l.pos < len(l.input) {
		if l.input[l.pos] == quote {
			if l.peek(1) == quote {
				l.pos += 2
				continue
			}
			l.pos++
			return
		}
		l.pos++
	}
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() {
	for isDigit(l.peek(0)) {
		l.pos++
	}
	if l.peek(0) == '.' && l.peek(1) != '.' {
		l.pos++
		for isDigit(l.peek(0)) {
			l.pos++
		}
	}
	if c := l.peek(0); c == 'e' || c == 'E' {
		next := l.peek(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peek(2))) {
			l.pos += 2
			for isDigit(l.peek(0)) {
				l.pos++
			}
		}
	}
}

// readWord reads an unquoted identifier or keyword.
func (l *Lexer) readWord() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return
		}
		l.pos += size
	}
}

func isIdentStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r)
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
