package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/dialect"
	"github.com/leapstack-labs/leapparse/pkg/grammar"
	"github.com/leapstack-labs/leapparse/pkg/segment"
	"github.com/leapstack-labs/leapparse/pkg/token"
)

// Result is the outcome of matching one grammar at one position.
// Failure is a value: Matched is false and Furthest records how far the
// attempt got before diverging.
type Result struct {
	Matched bool
	// End is one past the last consumed token. It equals the start position
	// for a zero-length match and for a failure.
	End      int
	Segments []*segment.Segment
	// Furthest is the highest token index any sub-attempt reached.
	Furthest int
	// Clean is false when the match contains an unparsable segment.
	Clean bool
}

func failAt(pos, furthest int) Result {
	return Result{End: pos, Furthest: max(pos, furthest)}
}

type memoKey struct {
	rule string
	pos  int
}

// session holds the state of one top-level parse or match invocation.
// It is never shared between goroutines.
type session struct {
	dialect  *dialect.Dialect
	toks     []token.Token
	memo     map[memoKey]Result
	maxDepth int
	maxSteps int
	depth    int
	steps    int
	rule     string // innermost rule being matched
	err      error  // set once a limit is hit; every later attempt fails fast
}

func newSession(d *dialect.Dialect, toks []token.Token, maxDepth, maxSteps int) *session {
	return &session{
		dialect:  d,
		toks:     toks,
		memo:     make(map[memoKey]Result),
		maxDepth: maxDepth,
		maxSteps: maxSteps,
	}
}

// skip returns the first code token index at or after pos.
func (s *session) skip(pos int) int {
	for pos < len(s.toks) && !s.toks[pos].IsCode() {
		pos++
	}
	return pos
}

// trimTrivia moves end back over trailing non-code tokens, never past from+1.
func (s *session) trimTrivia(from, end int) int {
	for end > from+1 && !s.toks[end-1].IsCode() {
		end--
	}
	return end
}

func (s *session) leaf(i int) *segment.Segment {
	tok := &s.toks[i]
	kind := segment.Code
	if !tok.IsCode() {
		kind = segment.NonCode
	}
	return segment.NewLeaf(tok.Kind.String(), kind, tok, i)
}

// leaves wraps tokens [from, to) as raw leaves.
func (s *session) leaves(from, to int) []*segment.Segment {
	if from >= to {
		return nil
	}
	out := make([]*segment.Segment, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, s.leaf(i))
	}
	return out
}

func (s *session) unparsable(from, to int) *segment.Segment {
	return segment.NewUnparsable(s.leaves(from, to), from, to)
}

func mark(segs []*segment.Segment, kind segment.Kind) []*segment.Segment {
	out := make([]*segment.Segment, len(segs))
	for i, seg := range segs {
		out[i] = seg.WithKind(kind)
	}
	return out
}

func (s *session) match(g grammar.Grammar, pos int) Result {
	if s.err != nil {
		return failAt(pos, pos)
	}
	s.steps++
	if s.maxSteps > 0 && s.steps > s.maxSteps {
		s.err = &LimitError{Err: ErrStepBudget, Limit: s.maxSteps, Rule: s.rule, Index: pos}
		return failAt(pos, pos)
	}

	switch g := g.(type) {
	case grammar.Ref:
		return s.matchRule(g.Name, pos)
	case grammar.Sequence:
		return s.matchSequence(g, pos)
	case grammar.Optional:
		r := s.match(g.Inner, pos)
		if r.Matched {
			return r
		}
		return Result{Matched: true, End: pos, Furthest: r.Furthest, Clean: true}
	case grammar.OneOf:
		return s.matchOneOf(g, pos)
	case grammar.AnyNumberOf:
		return s.matchAnyNumberOf(g, pos)
	case grammar.Bracketed:
		return s.matchBracketed(g, pos)
	case grammar.Delimited:
		return s.matchDelimited(g, pos)
	case grammar.Keyword:
		if pos < len(s.toks) {
			tok := &s.toks[pos]
			if tok.Kind == token.Word && strings.EqualFold(tok.Raw, g.Word) {
				return s.terminal("keyword", pos)
			}
		}
		return failAt(pos, pos)
	case grammar.Symbol:
		if pos < len(s.toks) {
			tok := &s.toks[pos]
			if tok.Kind == token.Symbol && tok.Raw == g.Text {
				return s.terminal(orDefault(g.Name, "symbol"), pos)
			}
		}
		return failAt(pos, pos)
	case grammar.Class:
		if pos < len(s.toks) {
			tok := &s.toks[pos]
			if tok.Kind == g.Kind && !(g.NonReserved && tok.Kind == token.Word && s.dialect.IsReserved(tok.Raw)) {
				return s.terminal(orDefault(g.Name, g.Kind.String()), pos)
			}
		}
		return failAt(pos, pos)
	default:
		panic(fmt.Sprintf("parser: unhandled grammar %T", g))
	}
}

func orDefault(name, def string) string {
	if name == "" {
		return def
	}
	return name
}

func (s *session) terminal(name string, pos int) Result {
	leaf := segment.NewLeaf(name, segment.Code, &s.toks[pos], pos)
	return Result{
		Matched:  true,
		End:      pos + 1,
		Segments: []*segment.Segment{leaf},
		Furthest: pos + 1,
		Clean:    true,
	}
}

// matchRule matches a named rule, memoized by (rule, pos). The memo entry is
// seeded with a failure before recursing so left-recursive rules terminate.
func (s *session) matchRule(name string, pos int) Result {
	key := memoKey{rule: name, pos: pos}
	if r, ok := s.memo[key]; ok {
		return r
	}

	g, ok := s.dialect.Rule(name)
	if !ok {
		s.err = &dialect.ConfigError{Dialect: s.dialect.Name(), Rule: name, Err: dialect.ErrUnknownRule}
		return failAt(pos, pos)
	}

	s.depth++
	if s.maxDepth > 0 && s.depth > s.maxDepth {
		s.depth--
		s.err = &LimitError{Err: ErrMaxDepth, Limit: s.maxDepth, Rule: name, Index: pos}
		return failAt(pos, pos)
	}
	s.memo[key] = failAt(pos, pos)
	outer := s.rule
	s.rule = name

	r := s.match(g, pos)

	s.rule = outer
	s.depth--

	if r.Matched && r.End > pos && !grammar.IsTransparent(name) {
		r.Segments = []*segment.Segment{segment.NewNode(name, r.Segments, pos, r.End)}
	}
	if s.err != nil {
		delete(s.memo, key)
		return failAt(pos, r.Furthest)
	}
	s.memo[key] = r
	return r
}

func (s *session) matchSequence(g grammar.Sequence, pos int) Result {
	cur, furthest := pos, pos
	clean := true
	var segs []*segment.Segment
	for _, item := range g.Items {
		next := s.skip(cur)
		r := s.match(item, next)
		furthest = max(furthest, r.Furthest)
		if !r.Matched {
			return failAt(pos, furthest)
		}
		if r.End > next {
			segs = append(segs, s.leaves(cur, next)...)
			segs = append(segs, r.Segments...)
			cur = r.End
		}
		clean = clean && r.Clean
	}
	return Result{Matched: true, End: cur, Segments: segs, Furthest: max(furthest, cur), Clean: clean}
}

// better reports whether a should win over b: longer beats shorter, and at
// equal length clean beats unclean. Ties keep b, the earlier declared option.
func better(a, b Result) bool {
	if a.End != b.End {
		return a.End > b.End
	}
	return a.Clean && !b.Clean
}

func (s *session) matchOneOf(g grammar.OneOf, pos int) Result {
	furthest := pos
	var best Result
	found := false
	for _, opt := range g.Options {
		r := s.match(opt, pos)
		furthest = max(furthest, r.Furthest)
		if !r.Matched {
			continue
		}
		if !found || better(r, best) {
			best, found = r, true
		}
	}
	if !found {
		return failAt(pos, furthest)
	}
	best.Furthest = max(best.Furthest, furthest)
	return best
}

func (s *session) matchAnyNumberOf(g grammar.AnyNumberOf, pos int) Result {
	cur, furthest := pos, pos
	count := 0
	clean := true
	var segs []*segment.Segment
	for g.Max == grammar.Unbounded || count < g.Max {
		next := s.skip(cur)
		r := s.match(g.Inner, next)
		furthest = max(furthest, r.Furthest)
		// A zero-length success would repeat forever.
		if !r.Matched || r.End == next {
			break
		}
		segs = append(segs, s.leaves(cur, next)...)
		segs = append(segs, r.Segments...)
		cur = r.End
		count++
		clean = clean && r.Clean
	}
	if count < g.Min {
		return failAt(pos, furthest)
	}
	return Result{Matched: true, End: cur, Segments: segs, Furthest: max(furthest, cur), Clean: clean}
}

// findClose returns the index of the close symbol balancing an open symbol
// consumed just before from, or -1.
func (s *session) findClose(from int, open, closing string) int {
	depth := 1
	for i := from; i < len(s.toks); i++ {
		tok := s.toks[i]
		if tok.Kind != token.Symbol {
			continue
		}
		switch tok.Raw {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (s *session) matchBracketed(g grammar.Bracketed, pos int) Result {
	open := s.match(g.Open, pos)
	if !open.Matched || open.End == pos {
		return failAt(pos, open.Furthest)
	}
	furthest := open.Furthest
	clean := open.Clean
	segs := mark(open.Segments, segment.Bracket)
	cur := open.End

	openSym, ok1 := g.Open.(grammar.Symbol)
	closeSym, ok2 := g.Close.(grammar.Symbol)
	if !ok1 || !ok2 {
		return s.matchBracketedSequential(g, pos, cur, segs, furthest, clean)
	}

	closeIdx := s.findClose(cur, openSym.Text, closeSym.Text)
	if closeIdx < 0 {
		return failAt(pos, len(s.toks))
	}

	if g.Content != nil {
		next := s.skip(cur)
		r := s.match(g.Content, next)
		furthest = max(furthest, r.Furthest)
		switch {
		case r.Matched && r.End <= closeIdx:
			if r.End > next {
				segs = append(segs, s.leaves(cur, next)...)
				segs = append(segs, r.Segments...)
				cur = r.End
			}
			clean = clean && r.Clean
		case g.Mode == grammar.Strict || next == closeIdx:
			return failAt(pos, furthest)
		}
	}

	if rest := s.skip(cur); rest < closeIdx {
		if g.Mode == grammar.Strict {
			return failAt(pos, max(furthest, rest))
		}
		end := s.trimTrivia(rest, closeIdx)
		segs = append(segs, s.leaves(cur, rest)...)
		segs = append(segs, s.unparsable(rest, end))
		cur = end
		clean = false
	}

	closeRes := s.match(g.Close, closeIdx)
	if !closeRes.Matched {
		return failAt(pos, max(furthest, closeIdx))
	}
	segs = append(segs, s.leaves(cur, closeIdx)...)
	segs = append(segs, mark(closeRes.Segments, segment.Bracket)...)
	return Result{
		Matched:  true,
		End:      closeRes.End,
		Segments: segs,
		Furthest: max(furthest, closeRes.End),
		Clean:    clean,
	}
}

// matchBracketedSequential handles brackets whose open or close is not a
// plain symbol, so no balancing scan is possible: content and close are
// matched in order and leftovers always fail.
func (s *session) matchBracketedSequential(g grammar.Bracketed, pos, cur int, segs []*segment.Segment, furthest int, clean bool) Result {
	if g.Content != nil {
		next := s.skip(cur)
		r := s.match(g.Content, next)
		furthest = max(furthest, r.Furthest)
		if !r.Matched {
			return failAt(pos, furthest)
		}
		if r.End > next {
			segs = append(segs, s.leaves(cur, next)...)
			segs = append(segs, r.Segments...)
			cur = r.End
		}
		clean = clean && r.Clean
	}
	next := s.skip(cur)
	closeRes := s.match(g.Close, next)
	furthest = max(furthest, closeRes.Furthest)
	if !closeRes.Matched || closeRes.End == next {
		return failAt(pos, furthest)
	}
	segs = append(segs, s.leaves(cur, next)...)
	segs = append(segs, mark(closeRes.Segments, segment.Bracket)...)
	return Result{Matched: true, End: closeRes.End, Segments: segs, Furthest: max(furthest, closeRes.End), Clean: clean}
}

func (s *session) matchDelimited(g grammar.Delimited, pos int) Result {
	cur, furthest := pos, pos
	count := 0
	clean := true
	var segs []*segment.Segment

	first := s.match(g.Content, pos)
	furthest = max(furthest, first.Furthest)
	if first.Matched && first.End > pos {
		segs = append(segs, first.Segments...)
		cur = first.End
		count = 1
		clean = first.Clean

		for {
			dpos := s.skip(cur)
			d := s.match(g.Delimiter, dpos)
			furthest = max(furthest, d.Furthest)
			if !d.Matched || d.End == dpos {
				break
			}
			cpos := s.skip(d.End)
			c := s.match(g.Content, cpos)
			furthest = max(furthest, c.Furthest)
			if !c.Matched || c.End == cpos {
				if g.AllowTrailing {
					segs = append(segs, s.leaves(cur, dpos)...)
					segs = append(segs, mark(d.Segments, segment.Delimiter)...)
					cur = d.End
				}
				break
			}
			segs = append(segs, s.leaves(cur, dpos)...)
			segs = append(segs, mark(d.Segments, segment.Delimiter)...)
			segs = append(segs, s.leaves(d.End, cpos)...)
			segs = append(segs, c.Segments...)
			cur = c.End
			count++
			clean = clean && c.Clean
		}
	}

	if count < g.Min {
		return failAt(pos, furthest)
	}
	return Result{Matched: true, End: cur, Segments: segs, Furthest: max(furthest, cur), Clean: clean}
}
