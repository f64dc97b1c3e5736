package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapparse/internal/cli/output"
	"github.com/leapstack-labs/leapparse/pkg/leapparse"
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/leapstack-labs/leapparse/pkg/segment"
	"github.com/spf13/cobra"
)

// ErrUnparsable is returned in strict mode when any input has unparsable regions.
var ErrUnparsable = errors.New("input contains unparsable regions")

// stdinName is the source name used for standard input.
const stdinName = "<stdin>"

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Rule  string // Rule to parse with instead of the dialect's statement rule
	Quiet bool   // Skip trees, only report unparsable regions
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [path...]",
		Short: "Parse SQL into a lossless segment tree",
		Long: `Parse SQL files or standard input and print the segment tree.

Parsing is best effort: regions the dialect cannot match are kept in the tree
as unparsable segments and reported after it. Directories are walked for files
with one of the configured extensions.

Output adapts to environment:
  - Terminal: Styled tree with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Parse a file with the default dialect
  leapparse parse query.sql

  # Parse every .sql file under models/ as postgres
  leapparse parse -d postgres models/

  # Parse standard input
  echo "SELECT 1" | leapparse parse

  # Only report problems, failing if any are found
  leapparse parse --quiet --strict models/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Rule, "rule", "r", "", "Rule to parse with (default: dialect statement rule)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Only report unparsable regions")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	cmdCtx := NewCommandContext(cmd)
	ctx, cancel := cmdCtx.WithTimeout(cmd.Context())
	defer cancel()

	p, err := cmdCtx.Parser("")
	if err != nil {
		return err
	}
	rule := opts.Rule
	if rule == "" {
		rule = p.Dialect().StatementRule()
	}
	if _, err := p.Dialect().Lookup(rule); err != nil {
		return err
	}

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		res := parseSource(ctx, p, rule, string(src))
		return reportResults(cmdCtx, p, []leapparse.FileResult{res}, opts)
	}

	paths, err := collectInputs(args, cmdCtx.Cfg.Extensions)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		cmdCtx.Renderer.Warning(fmt.Sprintf("no files with extensions %s found", strings.Join(cmdCtx.Cfg.Extensions, ", ")))
		return nil
	}
	cmdCtx.Logger.Debug("parsing files", "count", len(paths), "workers", cmdCtx.Cfg.Workers, "dialect", p.Dialect().Name())

	results, err := leapparse.ParseFilesWith(ctx, p, rule, paths, cmdCtx.Cfg.Workers)
	if err != nil {
		return err
	}
	return reportResults(cmdCtx, p, results, opts)
}

// parseSource parses src as a single input named stdinName.
func parseSource(ctx context.Context, p *parser.Parser, rule, src string) leapparse.FileResult {
	res := leapparse.FileResult{Path: stdinName}
	tree, err := p.ParseRule(ctx, rule, p.Tokenize(src))
	if err != nil {
		res.Err = err
		return res
	}
	res.Tree = tree
	res.Unparsable = segment.Unparsables(tree)
	return res
}

// collectInputs expands directories into the files under them whose extension
// is in exts. Explicit file arguments are kept whatever their extension.
func collectInputs(args, exts []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(path, exts) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
	}
	return paths, nil
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(exts, ext)
}

func reportResults(cmdCtx *CommandContext, p *parser.Parser, results []leapparse.FileResult, opts *ParseOptions) error {
	r := cmdCtx.Renderer
	stmtRule := p.Dialect().StatementRule()

	var failed, unparsable, statements int
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		unparsable += len(res.Unparsable)
		statements += res.Tree.Count(stmtRule)
	}

	if r.IsStructured() {
		if err := writeTreeDocs(cmdCtx, p, results, opts); err != nil {
			return err
		}
	} else {
		writeTreeText(cmdCtx, results, opts, len(results) > 1)
		if len(results) > 1 || cmdCtx.Cfg.Verbose {
			r.Println("")
			r.Println(r.Muted(fmt.Sprintf("%d file(s), %d statement(s), %d unparsable region(s), %d failed",
				len(results), statements, unparsable, failed)))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d input(s) failed", failed, len(results))
	}
	if cmdCtx.Cfg.Strict && unparsable > 0 {
		return fmt.Errorf("%w: %d region(s)", ErrUnparsable, unparsable)
	}
	return nil
}

func writeTreeText(cmdCtx *CommandContext, results []leapparse.FileResult, opts *ParseOptions, named bool) {
	r := cmdCtx.Renderer
	for _, res := range results {
		if res.Err != nil {
			r.Error(res.Err.Error())
			continue
		}
		if named && !opts.Quiet {
			r.Header(res.Path)
		}
		if !opts.Quiet {
			if err := r.Tree(res.Tree, cmdCtx.TreeOptions()); err != nil {
				r.Error(err.Error())
			}
		}
		source := ""
		if named {
			source = res.Path
		}
		r.Unparsable(source, res.Unparsable)
		if cmdCtx.Cfg.Verbose {
			cmdCtx.Logger.Info("parsed", "path", res.Path, "duration", res.Duration, "unparsable", len(res.Unparsable))
		}
	}
}

func writeTreeDocs(cmdCtx *CommandContext, p *parser.Parser, results []leapparse.FileResult, opts *ParseOptions) error {
	docs := make([]output.TreeDoc, 0, len(results))
	for _, res := range results {
		doc := output.TreeDoc{Source: res.Path, Dialect: p.Dialect().Name()}
		if res.Err != nil {
			doc.Error = res.Err.Error()
			docs = append(docs, doc)
			continue
		}
		doc.Statements = res.Tree.Count(p.Dialect().StatementRule())
		doc.Unparsable = output.NewUnparsableDocs(res.Unparsable)
		if !opts.Quiet {
			doc.Tree = segment.ToTree(res.Tree, cmdCtx.TreeOptions())
		}
		docs = append(docs, doc)
	}
	if len(docs) == 1 {
		return cmdCtx.Renderer.Data(docs[0])
	}
	return cmdCtx.Renderer.Data(docs)
}
