package dialect

import (
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

// SyncPolicy chooses where parsing resumes after an unparsable region that
// starts at token index start. It returns an index in [start, len(tokens)];
// the parser always advances past start, so returning start means "skip one
// token".
type SyncPolicy func(tokens []token.Token, start int) int

// TerminatorSync resumes at the next top-level token whose text is one of
// texts, leaving the terminator itself to be consumed as such. Tokens inside
// brackets are skipped.
func TerminatorSync(texts ...string) SyncPolicy {
	set := make(map[string]struct{}, len(texts))
	for _, t := range texts {
		set[t] = struct{}{}
	}
	return func(tokens []token.Token, start int) int {
		return scanTopLevel(tokens, start, func(i int, tok token.Token) bool {
			_, ok := set[tok.Raw]
			return ok && tok.Kind == token.Symbol
		})
	}
}

// KeywordSync resumes before the next top-level word matching one of words,
// e.g. the SELECT that opens a following statement in a dialect without
// mandatory terminators. The token at start itself never matches.
func KeywordSync(words ...string) SyncPolicy {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToUpper(w)] = struct{}{}
	}
	return func(tokens []token.Token, start int) int {
		return scanTopLevel(tokens, start, func(i int, tok token.Token) bool {
			if i == start || tok.Kind != token.Word {
				return false
			}
			_, ok := set[strings.ToUpper(tok.Raw)]
			return ok
		})
	}
}

// FirstOf resumes at the earliest boundary any of the policies finds.
func FirstOf(policies ...SyncPolicy) SyncPolicy {
	return func(tokens []token.Token, start int) int {
		best := len(tokens)
		for _, p := range policies {
			if p == nil {
				continue
			}
			if end := p(tokens, start); end < best {
				best = end
			}
		}
		return best
	}
}

// ToEnd treats everything from start to the end of input as one region.
func ToEnd(tokens []token.Token, _ int) int {
	return len(tokens)
}

// scanTopLevel returns the first index at or after start, outside any
// bracket opened after start, for which stop reports true. It returns
// len(tokens) when there is none.
func scanTopLevel(tokens []token.Token, start int, stop func(int, token.Token) bool) int {
	depth := 0
	for i := start; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind == token.Symbol {
			switch tok.Raw {
			case "(", "[", "{":
				depth++
				continue
			case ")", "]", "}":
				if depth > 0 {
					depth--
				}
				continue
			}
		}
		if depth == 0 && stop(i, tok) {
			return i
		}
	}
	return len(tokens)
}
