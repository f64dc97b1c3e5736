// Package parser matches token streams against a resolved dialect's grammar.
//
// # Usage
//
//	d, err := dialect.Load("duckdb")
//	if err != nil {
//	    // unknown dialect or broken definition
//	}
//	p := parser.New(d)
//	tree, err := p.Parse(ctx, p.Tokenize(sql))
//
// Parse is best effort: input the grammar cannot account for becomes
// unparsable segments in the tree and the returned error is reserved for
// configuration problems, internal limits and cancellation. Match is strict
// and reports a *MatchError when the rule does not cover the whole input.
//
// Matching is recursive descent with full backtracking. Every named rule is
// memoized by (rule, token position) for the duration of one call, so
// alternatives that retry the same sub-rule at the same place pay for it once.
// A Parser holds no mutable state and may be used from many goroutines.
package parser

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapparse/pkg/dialect"
	"github.com/leapstack-labs/leapparse/pkg/lexer"
	"github.com/leapstack-labs/leapparse/pkg/segment"
	"github.com/leapstack-labs/leapparse/pkg/token"
)

// Default limits.
const (
	DefaultMaxDepth = 4096
	DefaultMaxSteps = 2_000_000
)

// Parser parses token streams with one dialect.
type Parser struct {
	dialect  *dialect.Dialect
	logger   *slog.Logger
	maxDepth int
	maxSteps int
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger. Parsing logs at debug level only.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMaxDepth bounds rule nesting. Zero or less disables the limit.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		p.maxDepth = n
	}
}

// WithMaxSteps bounds the number of match attempts spent on one statement.
// Zero or less disables the limit.
func WithMaxSteps(n int) Option {
	return func(p *Parser) {
		p.maxSteps = n
	}
}

// New creates a parser for d.
func New(d *dialect.Dialect, opts ...Option) *Parser {
	p := &Parser{
		dialect:  d,
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxDepth,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dialect returns the dialect the parser matches against.
func (p *Parser) Dialect() *dialect.Dialect {
	return p.dialect
}

// Tokenize lexes src with the dialect's operator set.
func (p *Parser) Tokenize(src string) []token.Token {
	return lexer.Tokenize(src, lexer.WithSymbols(p.dialect.Symbols()...))
}

// Parse parses every statement in toks with the dialect's statement rule.
func (p *Parser) Parse(ctx context.Context, toks []token.Token) (*segment.Segment, error) {
	return p.ParseRule(ctx, p.dialect.StatementRule(), toks)
}

// ParseRule parses toks as a sequence of rule matches separated by the
// dialect's terminator. The returned tree is rooted at the dialect's root
// rule and covers every token exactly once. Tokens no match accounts for are
// wrapped in unparsable segments, each extending to the boundary chosen by
// the dialect's sync policy.
func (p *Parser) ParseRule(ctx context.Context, rule string, toks []token.Token) (*segment.Segment, error) {
	if _, err := p.dialect.Lookup(rule); err != nil {
		return nil, err
	}

	s := newSession(p.dialect, toks, p.maxDepth, p.maxSteps)
	sync := p.dialect.SyncPolicy()
	var children []*segment.Segment
	pos := 0

	for pos < len(toks) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !toks[pos].IsCode() {
			children = append(children, s.leaf(pos))
			pos++
			continue
		}
		if end, segs := p.terminator(s, pos); end > pos {
			children = append(children, segs...)
			pos = end
			continue
		}

		s.steps = 0
		r := s.matchRule(rule, pos)
		if s.err != nil {
			p.logger.Debug("parse abandoned", "dialect", p.dialect.Name(), "rule", rule, "error", s.err)
			return nil, s.err
		}

		if r.Matched && r.End > pos {
			children = append(children, r.Segments...)
			next := s.skip(r.End)
			if next == len(toks) {
				pos = r.End
				continue
			}
			if end, _ := p.terminator(s, next); end > next {
				pos = r.End
				continue
			}
			// Matched a prefix of the statement; the rest is unparsable.
			children = append(children, s.leaves(r.End, next)...)
			pos = next
		}

		end := len(toks)
		if sync != nil {
			end = sync(toks, pos)
		}
		end = max(end, pos+1)
		end = s.trimTrivia(pos, min(end, len(toks)))

		p.logger.Debug("unparsable input",
			"dialect", p.dialect.Name(),
			"rule", rule,
			"line", toks[pos].Pos.Line,
			"column", toks[pos].Pos.Column,
			"tokens", end-pos,
		)
		children = append(children, s.unparsable(pos, end))
		pos = end
	}

	return segment.NewNode(p.dialect.RootRule(), children, 0, len(toks)), nil
}

// terminator matches the dialect's statement terminator at pos, returning
// the end position (pos when absent) and its segments.
func (p *Parser) terminator(s *session, pos int) (int, []*segment.Segment) {
	term := p.dialect.Terminator()
	if term == nil {
		return pos, nil
	}
	r := s.match(term, pos)
	if !r.Matched {
		return pos, nil
	}
	return r.End, r.Segments
}

// Match strictly matches rule against toks. It succeeds only when the rule
// matches from the first code token, every code token is consumed (a single
// trailing terminator excepted) and nothing inside is unparsable. The
// returned segment is the rule's node without surrounding trivia.
func (p *Parser) Match(ctx context.Context, rule string, toks []token.Token) (*segment.Segment, error) {
	if _, err := p.dialect.Lookup(rule); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := newSession(p.dialect, toks, p.maxDepth, p.maxSteps)
	start := s.skip(0)
	r := s.matchRule(rule, start)
	if s.err != nil {
		p.logger.Debug("match abandoned", "dialect", p.dialect.Name(), "rule", rule, "error", s.err)
		return nil, s.err
	}
	if !r.Matched || !r.Clean {
		return nil, p.matchError(rule, toks, r.Furthest)
	}

	next := s.skip(r.End)
	if next < len(toks) {
		if end, _ := p.terminator(s, next); end > next {
			next = s.skip(end)
		}
	}
	if next < len(toks) {
		return nil, p.matchError(rule, toks, max(next, r.Furthest))
	}

	if len(r.Segments) == 1 && r.Segments[0].Name == rule {
		return r.Segments[0], nil
	}
	// Transparent or empty rules produce no node of their own.
	return segment.NewNode(rule, r.Segments, start, r.End), nil
}

// MatchAt runs one memoized match of rule at token index pos and returns the
// raw result, without any whole-input checks.
func (p *Parser) MatchAt(ctx context.Context, rule string, toks []token.Token, pos int) (Result, error) {
	if _, err := p.dialect.Lookup(rule); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s := newSession(p.dialect, toks, p.maxDepth, p.maxSteps)
	r := s.matchRule(rule, pos)
	if s.err != nil {
		return Result{}, s.err
	}
	return r, nil
}

func (p *Parser) matchError(rule string, toks []token.Token, idx int) *MatchError {
	for idx < len(toks) && !toks[idx].IsCode() {
		idx++
	}
	e := &MatchError{Rule: rule, Index: idx}
	switch {
	case idx < len(toks):
		e.Pos = toks[idx].Pos
		e.Near = toks[idx].Raw
	case len(toks) > 0:
		e.Pos = toks[len(toks)-1].End()
	default:
		e.Pos = token.Position{Line: 1, Column: 1}
	}
	return e
}
