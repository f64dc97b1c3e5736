package leapparse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/leapstack-labs/leapparse/pkg/segment"
	"golang.org/x/sync/errgroup"
)

// FileResult is the outcome of parsing one file.
type FileResult struct {
	Path       string
	Tree       *segment.Segment
	Unparsable []segment.UnparsableSpan
	Duration   time.Duration
	// Err is set when the file could not be read or parsing was abandoned.
	Err error
}

// OK reports whether the file parsed completely.
func (r FileResult) OK() bool {
	return r.Err == nil && len(r.Unparsable) == 0
}

// ParseFiles parses paths concurrently with at most workers goroutines, zero
// meaning GOMAXPROCS. Results are returned in the order of paths. A failure
// on one file is recorded in its result; only cancellation of ctx stops the
// batch and is returned as the error.
func ParseFiles(ctx context.Context, dialectName string, paths []string, workers int, opts ...parser.Option) ([]FileResult, error) {
	p, err := NewParser(dialectName, opts...)
	if err != nil {
		return nil, err
	}
	return ParseFilesWith(ctx, p, "", paths, workers)
}

// ParseFilesWith is ParseFiles with a prepared parser. A non-empty rule
// replaces the dialect's statement rule.
func ParseFilesWith(ctx context.Context, p *parser.Parser, rule string, paths []string, workers int) ([]FileResult, error) {
	if rule == "" {
		rule = p.Dialect().StatementRule()
	}
	if _, err := p.Dialect().Lookup(rule); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			results[i] = parseFile(gctx, p, rule, path)
			if err := results[i].Err; errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func parseFile(ctx context.Context, p *parser.Parser, rule, path string) FileResult {
	res := FileResult{Path: path}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	src, err := os.ReadFile(path) //nolint:gosec // paths are supplied by the caller
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", path, err)
		return res
	}

	start := time.Now()
	tree, err := p.ParseRule(ctx, rule, p.Tokenize(string(src)))
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = fmt.Errorf("parse %s: %w", path, err)
		return res
	}
	res.Tree = tree
	res.Unparsable = segment.Unparsables(tree)
	return res
}
