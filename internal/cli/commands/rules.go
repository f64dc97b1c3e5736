package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/leapparse/internal/cli/output"
	"github.com/leapstack-labs/leapparse/pkg/dialect"
	"github.com/leapstack-labs/leapparse/pkg/grammar"
	"github.com/spf13/cobra"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Status  string // Filter by status: inherited, inserted, replaced
	Grammar bool   // Show each rule's grammar
}

// RuleInfo describes one rule of a resolved dialect.
type RuleInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Status     string   `json:"status" yaml:"status"`
	Grammar    string   `json:"grammar,omitempty" yaml:"grammar,omitempty"`
	References []string `json:"references,omitempty" yaml:"references,omitempty"`
}

// RulesOutput is the structured output for rules listing.
type RulesOutput struct {
	Dialect string     `json:"dialect" yaml:"dialect"`
	Parent  string     `json:"parent,omitempty" yaml:"parent,omitempty"`
	Rules   []RuleInfo `json:"rules" yaml:"rules"`
	Count   struct {
		Inherited int `json:"inherited" yaml:"inherited"`
		Inserted  int `json:"inserted" yaml:"inserted"`
		Replaced  int `json:"replaced" yaml:"replaced"`
		Total     int `json:"total" yaml:"total"`
	} `json:"count" yaml:"count"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule]",
		Short: "List the grammar rules of a dialect",
		Long: `List the grammar rules of the selected dialect.

Each rule is marked inherited (taken unchanged from the parent dialect),
inserted (added by this dialect) or replaced (overriding a parent rule).
Give a rule name to see its grammar and the rules it references.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # List ansi rules
  leapparse rules

  # Show what postgres adds on top of ansi
  leapparse rules -d postgres --status inserted

  # Show one rule's grammar
  leapparse rules -d duckdb SelectClauseSegment

  # Output as JSON with grammars
  leapparse rules -g -o json`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeRules(cmd), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0])
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status: inherited, inserted, replaced")
	cmd.Flags().BoolVarP(&opts.Grammar, "grammar", "g", false, "Show each rule's grammar")

	_ = cmd.RegisterFlagCompletionFunc("status", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"inherited", "inserted", "replaced"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	d, err := cmdCtx.Dialect("")
	if err != nil {
		return err
	}

	switch opts.Status {
	case "", "inherited", "inserted", "replaced":
	default:
		return fmt.Errorf("unknown status %q (want inherited, inserted or replaced)", opts.Status)
	}

	out := collectRules(d, opts)

	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		return r.Data(out)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, out, opts.Grammar)
	default:
		return listRulesText(r, out, opts.Grammar)
	}
}

func collectRules(d *dialect.Dialect, opts *RulesOptions) RulesOutput {
	out := RulesOutput{Dialect: d.Name(), Parent: d.Parent(), Rules: []RuleInfo{}}
	for _, name := range d.RuleNames() {
		status := d.RuleStatus(name)
		if opts.Status != "" && status.String() != opts.Status {
			continue
		}
		info := RuleInfo{Name: name, Status: status.String()}
		if opts.Grammar {
			g, _ := d.Rule(name)
			info.Grammar = grammar.Describe(g)
			info.References = grammar.Refs(g)
		}
		out.Rules = append(out.Rules, info)

		switch status {
		case dialect.Inserted:
			out.Count.Inserted++
		case dialect.Replaced:
			out.Count.Replaced++
		default:
			out.Count.Inherited++
		}
	}
	out.Count.Total = len(out.Rules)
	return out
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, out RulesOutput, showGrammar bool) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s Rules (%d inserted, %d replaced, %d inherited)",
		displayName(out.Dialect), out.Count.Inserted, out.Count.Replaced, out.Count.Inherited)))
	if out.Parent != "" {
		r.Println(styles.Muted.Render("  extends " + out.Parent))
	}
	r.Println("")

	width := 0
	for _, rule := range out.Rules {
		width = max(width, len(rule.Name))
	}

	for _, rule := range out.Rules {
		r.Printf("  %-*s  %s\n", width, rule.Name, statusStyle(styles, rule.Status).Render(rule.Status))
		if showGrammar {
			r.Println(styles.Muted.Render("      " + truncateOneLine(rule.Grammar, 100)))
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'leapparse rules <rule>' for the full grammar of a rule"))
	r.Println("")
	return nil
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, out RulesOutput, showGrammar bool) error {
	r.Printf("# %s Rules\n\n", displayName(out.Dialect))
	if out.Parent != "" {
		r.Printf("Extends `%s`.\n\n", out.Parent)
	}

	for _, rule := range out.Rules {
		r.Printf("- **%s** (`%s`)\n", rule.Name, rule.Status)
		if showGrammar {
			r.Printf("  `%s`\n", rule.Grammar)
		}
	}
	r.Println("")
	return nil
}

func showRule(cmd *cobra.Command, name string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	d, err := cmdCtx.Dialect("")
	if err != nil {
		return err
	}
	g, err := d.Lookup(name)
	if err != nil {
		return err
	}

	info := RuleInfo{
		Name:       name,
		Status:     d.RuleStatus(name).String(),
		Grammar:    grammar.Describe(g),
		References: grammar.Refs(g),
	}
	referencedBy := referrers(d, name)

	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		return r.Data(struct {
			RuleInfo     `yaml:",inline"`
			Dialect      string   `json:"dialect" yaml:"dialect"`
			ReferencedBy []string `json:"referenced_by,omitempty" yaml:"referenced_by,omitempty"`
		}{info, d.Name(), referencedBy})
	case output.ModeMarkdown:
		r.Printf("# %s\n\n", info.Name)
		r.Printf("**Dialect:** %s | **Status:** `%s`\n\n", d.Name(), info.Status)
		r.Println(output.FormatCode("ebnf", info.Grammar))
		if len(info.References) > 0 {
			r.Println(output.FormatKeyValue("References", strings.Join(info.References, ", ")))
		}
		if len(referencedBy) > 0 {
			r.Println(output.FormatKeyValue("Referenced by", strings.Join(referencedBy, ", ")))
		}
		return nil
	}

	styles := r.Styles()
	r.Println("")
	r.Println(styles.Header1.Render(info.Name))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Dialect"), d.Name())
	r.Printf("  %s: %s\n", styles.Bold.Render("Status"), statusStyle(styles, info.Status).Render(info.Status))
	r.Println("")
	r.Println(styles.Bold.Render("Grammar"))
	r.Println("  " + info.Grammar)
	r.Println("")
	if len(info.References) > 0 {
		r.Println(styles.Bold.Render("References"))
		r.Println(styles.Muted.Render("  " + strings.Join(info.References, ", ")))
		r.Println("")
	}
	if len(referencedBy) > 0 {
		r.Println(styles.Bold.Render("Referenced By"))
		r.Println(styles.Muted.Render("  " + strings.Join(referencedBy, ", ")))
		r.Println("")
	}
	return nil
}

// referrers lists the rules of d whose grammar references name.
func referrers(d *dialect.Dialect, name string) []string {
	var names []string
	for _, rule := range d.RuleNames() {
		g, _ := d.Rule(rule)
		for _, ref := range grammar.Refs(g) {
			if ref == name {
				names = append(names, rule)
				break
			}
		}
	}
	return names
}

// completeRules returns the rule names of the dialect selected on the command line.
func completeRules(cmd *cobra.Command) []string {
	name, _ := cmd.Flags().GetString("dialect")
	if name == "" {
		name = getConfig().Dialect
	}
	d, err := dialect.Load(name)
	if err != nil {
		return nil
	}
	return d.RuleNames()
}

// Helper functions

func statusStyle(styles *output.Styles, status string) lipgloss.Style {
	switch status {
	case "inserted":
		return styles.Inserted
	case "replaced":
		return styles.Replaced
	default:
		return styles.Inherited
	}
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
