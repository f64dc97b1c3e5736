package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapparse/pkg/dialect"
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/leapstack-labs/leapparse/pkg/segment"
	"github.com/spf13/cobra"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively parse SQL",
		Long: `Start an interactive session that parses each statement as it is entered.

Statements end with a semicolon and may span several lines. Use .rule to
strictly match input against a single rule instead, and .dialect to switch
dialects. Type .help for all commands.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	s, err := newREPLSession(cmdCtx)
	if err != nil {
		return err
	}

	// Setup history file in the user's config directory
	var historyFile string
	if dir, err := os.UserConfigDir(); err == nil {
		if err := os.MkdirAll(filepath.Join(dir, "leapparse"), 0o750); err == nil {
			historyFile = filepath.Join(dir, "leapparse", "repl_history")
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		HistoryFile:     historyFile,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := cmdCtx.Renderer
	r.Println("LeapParse REPL")
	r.Println("Type .help for commands, .quit to exit")
	r.Println("")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.buf.Reset()
			rl.SetPrompt(s.prompt())
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		if s.handleLine(cmd.Context(), line) {
			break
		}
		rl.SetPrompt(s.prompt())
	}

	return nil
}

// replSession is the state of one REPL: the active parser, an optional rule
// for strict matching and the statement being accumulated.
type replSession struct {
	cmdCtx *CommandContext
	parser *parser.Parser
	rule   string
	buf    strings.Builder
}

func newREPLSession(cmdCtx *CommandContext) (*replSession, error) {
	p, err := cmdCtx.Parser("")
	if err != nil {
		return nil, err
	}
	return &replSession{cmdCtx: cmdCtx, parser: p}, nil
}

func (s *replSession) prompt() string {
	if s.buf.Len() > 0 {
		return "    ...> "
	}
	name := s.parser.Dialect().Name()
	if s.rule != "" {
		name += ":" + s.rule
	}
	return name + "> "
}

// handleLine processes one input line and reports whether the session should end.
func (s *replSession) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	// Handle dot-commands
	if s.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return s.handleDotCommand(line)
	}

	// Accumulate multi-line SQL until semicolon
	if s.buf.Len() > 0 {
		s.buf.WriteString("\n")
	}
	s.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		return false
	}

	src := s.buf.String()
	s.buf.Reset()
	if err := s.evaluate(ctx, src); err != nil {
		s.cmdCtx.Renderer.Error(err.Error())
	}
	s.cmdCtx.Renderer.Println("")
	return false
}

// evaluate parses src, or strictly matches it when a rule is selected.
func (s *replSession) evaluate(ctx context.Context, src string) error {
	r := s.cmdCtx.Renderer
	ctx, cancel := s.cmdCtx.WithTimeout(ctx)
	defer cancel()

	if s.rule != "" {
		// the terminating semicolon is not part of the rule
		src = strings.TrimSuffix(src, ";")
		tree, err := s.parser.Match(ctx, s.rule, s.parser.Tokenize(src))
		var me *parser.MatchError
		if errors.As(err, &me) {
			r.Println(pointAt(src, me))
			return nil
		}
		if err != nil {
			return err
		}
		return r.Tree(tree, s.cmdCtx.TreeOptions())
	}

	tree, err := s.parser.Parse(ctx, s.parser.Tokenize(src))
	if err != nil {
		return err
	}
	if err := r.Tree(tree, s.cmdCtx.TreeOptions()); err != nil {
		return err
	}
	r.Unparsable("", segment.Unparsables(tree))
	return nil
}

func (s *replSession) handleDotCommand(line string) bool {
	r := s.cmdCtx.Renderer
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.Writer())

	case ".dialects":
		for _, name := range dialect.List() {
			marker := "  "
			if name == s.parser.Dialect().Name() {
				marker = "* "
			}
			r.Println(marker + name)
		}

	case ".dialect":
		if len(parts) < 2 {
			r.Println(s.parser.Dialect().Name())
			return false
		}
		p, err := s.cmdCtx.Parser(parts[1])
		if err != nil {
			r.Error(err.Error())
			return false
		}
		s.parser = p
		if s.rule != "" && !p.Dialect().HasRule(s.rule) {
			r.Warning(fmt.Sprintf("%s has no rule %s, back to statement parsing", p.Dialect().Name(), s.rule))
			s.rule = ""
		}
		r.Success("dialect " + p.Dialect().Name())

	case ".rule":
		if len(parts) < 2 {
			if s.rule == "" {
				r.Println("parsing statements with " + s.parser.Dialect().StatementRule())
			} else {
				r.Println("matching " + s.rule)
			}
			return false
		}
		if parts[1] == "-" {
			s.rule = ""
			r.Success("parsing statements")
			return false
		}
		if _, err := s.parser.Dialect().Lookup(parts[1]); err != nil {
			r.Error(err.Error())
			return false
		}
		s.rule = parts[1]
		r.Success("matching " + s.rule)

	case ".clear":
		r.Printf("\033[H\033[2J")

	default:
		r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .dialects        List registered dialects
  .dialect [name]  Show or switch the active dialect
  .rule [name|-]   Strictly match input against a rule, - to parse statements again
  .clear           Clear the screen
  .quit / .exit    Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for dot-commands and rule names after .rule
`
	_, _ = fmt.Fprintln(w, help)
}

// completer creates a readline completer for dot-commands, dialects and the
// active dialect's rule names.
func (s *replSession) completer() *readline.PrefixCompleter {
	var dialects []readline.PrefixCompleterInterface
	for _, name := range dialect.List() {
		dialects = append(dialects, readline.PcItem(name))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".dialects"),
		readline.PcItem(".dialect", dialects...),
		readline.PcItem(".rule", readline.PcItemDynamic(func(string) []string {
			return append(s.parser.Dialect().RuleNames(), "-")
		})),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
