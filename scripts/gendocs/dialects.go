package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/dialect"
	"github.com/leapstack-labs/leapparse/pkg/grammar"
	_ "github.com/leapstack-labs/leapparse/pkg/leapparse" // register dialects
)

// generateDialectDocs writes an index of the registered dialects and one
// rule reference page per dialect.
func generateDialectDocs(outDir string) error {
	log.Printf("Generating dialect docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var dialects []*dialect.Dialect
	for _, name := range dialect.List() {
		d, err := dialect.Load(name)
		if err != nil {
			return err
		}
		dialects = append(dialects, d)
	}

	if err := os.WriteFile(filepath.Join(outDir, "index.md"), dialectIndex(dialects), 0600); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, d := range dialects {
		filename := filepath.Join(outDir, d.Name()+".md")
		if err := os.WriteFile(filename, dialectPage(d), 0600); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", d.Name(), err)
		}
		log.Printf("  Generated %s.md", d.Name())
	}
	return nil
}

func dialectIndex(dialects []*dialect.Dialect) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("Dialects", "SQL dialects supported by LeapParse")
	w.GeneratedMarker()

	w.Header(1, "Dialects")
	w.Paragraph("Each dialect starts from its parent's rules and patches them. Rules a dialect adds are marked inserted, rules it overrides are marked replaced.")

	headers := []string{"Dialect", "Parent", "Rules", "Inserted", "Replaced"}
	var rows [][]string
	for _, d := range dialects {
		inserted, replaced := countStatus(d)
		parent := "-"
		if d.Parent() != "" {
			parent = fmt.Sprintf("[%s](/dialects/%s)", d.Parent(), d.Parent())
		}
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/dialects/%s)", InlineCode(d.Name()), d.Name()),
			parent,
			strconv.Itoa(len(d.RuleNames())),
			strconv.Itoa(inserted),
			strconv.Itoa(replaced),
		})
	}
	w.Table(headers, rows)
	return w.Bytes()
}

func dialectPage(d *dialect.Dialect) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(d.Name(), fmt.Sprintf("Grammar rules of the %s dialect", d.Name()))
	w.GeneratedMarker()

	w.Header(1, d.Name())
	if d.Parent() != "" {
		w.Paragraph(fmt.Sprintf("Extends %s. Inherited rules are listed on the parent's page.", InlineCode(d.Parent())))
	}

	w.Header(2, "Overview")
	w.Table([]string{"Property", "Value"}, [][]string{
		{"Root rule", InlineCode(d.RootRule())},
		{"Statement rule", InlineCode(d.StatementRule())},
		{"Terminator", InlineCode(grammar.Describe(d.Terminator()))},
	})

	if words := d.ReservedWords(); len(words) > 0 {
		w.Header(2, "Reserved Words")
		w.Paragraph(strings.Join(words, ", "))
	}

	for _, status := range []dialect.RuleStatus{dialect.Inserted, dialect.Replaced} {
		names := rulesWithStatus(d, status)
		if len(names) == 0 {
			continue
		}
		title := "Rules"
		if d.Parent() != "" {
			title = strings.ToUpper(status.String()[:1]) + status.String()[1:] + " Rules"
		}
		w.Header(2, title)
		for _, name := range names {
			g, _ := d.Rule(name)
			w.Header(3, name)
			w.CodeBlock("ebnf", grammar.Describe(g))
			if refs := grammar.Refs(g); len(refs) > 0 {
				linked := make([]string, len(refs))
				for i, ref := range refs {
					linked[i] = InlineCode(ref)
				}
				w.Paragraph(Bold("References:") + " " + strings.Join(linked, ", "))
			}
		}
	}
	return w.Bytes()
}

func rulesWithStatus(d *dialect.Dialect, status dialect.RuleStatus) []string {
	var names []string
	for _, name := range d.RuleNames() {
		if d.RuleStatus(name) == status {
			names = append(names, name)
		}
	}
	return names
}

func countStatus(d *dialect.Dialect) (inserted, replaced int) {
	for _, name := range d.RuleNames() {
		switch d.RuleStatus(name) {
		case dialect.Inserted:
			inserted++
		case dialect.Replaced:
			replaced++
		}
	}
	return inserted, replaced
}
