package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapparse/internal/cli"
	"github.com/leapstack-labs/leapparse/pkg/dialect"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// exitStatus describes non-zero exits for commands that have them beyond a
// plain error.
var exitStatus = map[string]string{
	"parse": "Exits 1 when any input fails, or with " + InlineCode("--strict") + " when any input has unparsable regions.",
	"match": "Exits 1 when the rule does not account for the whole input. The furthest position reached is shown with a caret under the failing column.",
	"watch": "Runs until interrupted. Parse failures are reported per file and never stop the watcher.",
}

// generateCLIDocs writes an index page and one page per visible command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	keys := flagKeys()

	if err := os.WriteFile(filepath.Join(outDir, "index.md"), cliIndex(root, keys), 0600); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, cmd := range visibleCommands(root) {
		filename := filepath.Join(outDir, cmd.Name()+".md")
		if err := os.WriteFile(filename, commandPage(cmd, keys), 0600); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		log.Printf("  Generated %s.md", cmd.Name())
	}
	return nil
}

func visibleCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

// flagKeys maps flag names to the config keys they override.
func flagKeys() map[string]string {
	keys := make(map[string]string)
	for _, k := range configKeys() {
		keys[strings.ReplaceAll(k.Key, "_", "-")] = k.Key
	}
	return keys
}

func cliIndex(root *cobra.Command, keys map[string]string) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for LeapParse")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/leapparse/cmd/leapparse@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range visibleCommands(root) {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name()),
			argSummary(cmd),
			cleanDescription(cmd.Short),
		})
	}
	w.Table([]string{"Command", "Arguments", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Paragraph("Accepted by every command.")
	w.Table(flagHeaders, flagRows(root.PersistentFlags(), keys))

	w.Header(2, "Configuration")
	w.Paragraph("Settings are read from " + InlineCode("leapparse.yaml") +
		" (searched upwards from the working directory), then " + InlineCode("LEAPPARSE_") +
		" environment variables, then flags. Later sources win.")
	var envRows [][]string
	for _, k := range configKeys() {
		envRows = append(envRows, []string{InlineCode(k.Key), InlineCode(k.Env), k.Type, k.Default})
	}
	w.Table([]string{"Key", "Variable", "Type", "Default"}, envRows)

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Error, failed match, or unparsable input with " + InlineCode("--strict")},
	})

	return w.Bytes()
}

func commandPage(cmd *cobra.Command, keys map[string]string) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", "leapparse "+cmd.Use)
	if len(cmd.Aliases) > 0 {
		names := make([]string, len(cmd.Aliases))
		for i, a := range cmd.Aliases {
			names[i] = InlineCode(a)
		}
		w.Paragraph("Aliases: " + strings.Join(names, ", "))
	}

	if args := useArgs(cmd); len(args) > 0 {
		w.Header(2, "Arguments")
		var rows [][]string
		for _, a := range args {
			rows = append(rows, []string{InlineCode(a.name), yesNo(a.required), yesNo(a.repeated)})
		}
		w.Table([]string{"Argument", "Required", "Repeatable"}, rows)
	}

	if takesRule(cmd) {
		w.Header(2, "Rules")
		var links []string
		for _, name := range dialect.List() {
			links = append(links, fmt.Sprintf("[%s](/dialects/%s)", InlineCode(name), name))
		}
		w.Paragraph("Rule names are resolved against the selected dialect before any input is read; an unknown rule is a configuration error. " +
			"Run " + InlineCode("leapparse rules") + " to list them, or see the reference for " + strings.Join(links, ", ") + ".")
	}

	if cmd.HasSubCommands() {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if !sub.Hidden {
				rows = append(rows, []string{InlineCode(sub.Name()), cleanDescription(sub.Short)})
			}
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		w.Table(flagHeaders, flagRows(cmd.LocalFlags(), keys))
	}
	if cmd.HasInheritedFlags() {
		w.Header(2, "Global Options")
		w.Table(flagHeaders, flagRows(cmd.InheritedFlags(), keys))
	}

	if status, ok := exitStatus[cmd.Name()]; ok {
		w.Header(2, "Exit Status")
		w.Paragraph(status)
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}

	return w.Bytes()
}

type useArg struct {
	name     string
	required bool
	repeated bool
}

// useArgs reads positional arguments from a cobra Use line such as
// "match <rule> [sql]" or "parse [path...]".
func useArgs(cmd *cobra.Command) []useArg {
	fields := strings.Fields(cmd.Use)
	if len(fields) < 2 {
		return nil
	}
	var args []useArg
	for _, f := range fields[1:] {
		a := useArg{required: strings.HasPrefix(f, "<")}
		f = strings.Trim(f, "<>[]")
		a.name, a.repeated = strings.CutSuffix(f, "...")
		if a.name == "" || strings.Contains(a.name, "|") {
			continue
		}
		args = append(args, a)
	}
	return args
}

func argSummary(cmd *cobra.Command) string {
	_, rest, _ := strings.Cut(cmd.Use, " ")
	if rest == "" {
		return ""
	}
	return InlineCode(rest)
}

func takesRule(cmd *cobra.Command) bool {
	for _, a := range useArgs(cmd) {
		if a.name == "rule" {
			return true
		}
	}
	return cmd.LocalFlags().Lookup("rule") != nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var flagHeaders = []string{"Option", "Short", "Default", "Config key", "Description"}

func flagRows(flags *pflag.FlagSet, keys map[string]string) [][]string {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		key := ""
		if k, ok := keys[f.Name]; ok {
			key = InlineCode(k)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, flagDefault(f), key, cleanDescription(f.Usage)})
	})
	return rows
}

// flagDefault renders a flag default. Zero values of numeric and slice flags
// mean "use the configured value" and are left blank.
func flagDefault(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "0", "0s", "[]", "false":
		return ""
	}
	return InlineCode(f.DefValue)
}

// cleanExample strips the indentation shared by every non-blank line.
func cleanExample(example string) string {
	lines := strings.Split(strings.Trim(example, "\n"), "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimSpace(line)
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
}
