// Package leapparse parses SQL source against the registered dialect grammars.
//
// It binds the dialect registry, the lexer and the parser together and
// registers the bundled dialect catalog (ansi, postgres, duckdb):
//
//	tree, spans, err := leapparse.Parse(ctx, "duckdb", "SELECT * EXCLUDE (a) FROM t")
//
// Parse is best effort: input the grammar cannot account for is kept in the
// tree as unparsable segments and listed in spans. Match is strict and fails
// with parser.ErrNoMatch unless the rule accounts for the whole input.
package leapparse

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leapparse/pkg/dialect"
	_ "github.com/leapstack-labs/leapparse/pkg/dialects/ansi"     // register ansi
	_ "github.com/leapstack-labs/leapparse/pkg/dialects/duckdb"   // register duckdb
	_ "github.com/leapstack-labs/leapparse/pkg/dialects/postgres" // register postgres
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/leapstack-labs/leapparse/pkg/segment"
)

// NewParser loads the named dialect and returns a parser for it.
func NewParser(dialectName string, opts ...parser.Option) (*parser.Parser, error) {
	d, err := dialect.Load(dialectName)
	if err != nil {
		return nil, err
	}
	return parser.New(d, opts...), nil
}

// Parse parses every statement in source and reports the regions no
// statement could account for. The tree reproduces source byte for byte.
func Parse(ctx context.Context, dialectName, source string, opts ...parser.Option) (*segment.Segment, []segment.UnparsableSpan, error) {
	p, err := NewParser(dialectName, opts...)
	if err != nil {
		return nil, nil, err
	}
	tree, err := p.Parse(ctx, p.Tokenize(source))
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", dialectName, err)
	}
	return tree, segment.Unparsables(tree), nil
}

// ParseRule is Parse with rule in place of the dialect's statement rule.
func ParseRule(ctx context.Context, dialectName, rule, source string, opts ...parser.Option) (*segment.Segment, error) {
	p, err := NewParser(dialectName, opts...)
	if err != nil {
		return nil, err
	}
	tree, err := p.ParseRule(ctx, rule, p.Tokenize(source))
	if err != nil {
		return nil, fmt.Errorf("parse %s as %s: %w", dialectName, rule, err)
	}
	return tree, nil
}

// Match strictly matches source against rule. The error wraps
// parser.ErrNoMatch when the rule does not account for all of source.
func Match(ctx context.Context, dialectName, rule, source string, opts ...parser.Option) (*segment.Segment, error) {
	p, err := NewParser(dialectName, opts...)
	if err != nil {
		return nil, err
	}
	return p.Match(ctx, rule, p.Tokenize(source))
}

// DialectInfo summarizes a registered dialect.
type DialectInfo struct {
	Name     string `json:"name" yaml:"name"`
	Parent   string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Root     string `json:"root" yaml:"root"`
	Rules    int    `json:"rules" yaml:"rules"`
	Inserted int    `json:"inserted" yaml:"inserted"`
	Replaced int    `json:"replaced" yaml:"replaced"`
	Reserved int    `json:"reserved" yaml:"reserved"`
}

// Dialects resolves and summarizes every registered dialect, sorted by name.
func Dialects() ([]DialectInfo, error) {
	names := dialect.List()
	infos := make([]DialectInfo, 0, len(names))
	for _, name := range names {
		d, err := dialect.Load(name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, Describe(d))
	}
	return infos, nil
}

// Describe summarizes a resolved dialect.
func Describe(d *dialect.Dialect) DialectInfo {
	info := DialectInfo{
		Name:     d.Name(),
		Parent:   d.Parent(),
		Root:     d.RootRule(),
		Reserved: len(d.ReservedWords()),
	}
	for _, rule := range d.RuleNames() {
		info.Rules++
		switch d.RuleStatus(rule) {
		case dialect.Inserted:
			info.Inserted++
		case dialect.Replaced:
			info.Replaced++
		}
	}
	return info
}
