package commands

import (
	"strconv"

	"github.com/leapstack-labs/leapparse/pkg/leapparse"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// displayName formats a dialect name for headings.
func displayName(name string) string {
	return titleCaser.String(name)
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "dialects",
		Aliases: []string{"ls"},
		Short:   "List registered SQL dialects",
		Long: `List every registered dialect with its parent, root rule and how many
rules it inserts or replaces relative to the parent.`,
		Example: `  # List dialects
  leapparse dialects

  # As YAML
  leapparse dialects -o yaml`,
		Args: cobra.NoArgs,
		RunE: runDialects,
	}
}

func runDialects(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	infos, err := leapparse.Dialects()
	if err != nil {
		return err
	}

	if r.IsStructured() {
		return r.Data(infos)
	}

	r.Header("Dialects")
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		name := info.Name
		if name == cmdCtx.Cfg.Dialect {
			name += " *"
		}
		parent := info.Parent
		if parent == "" {
			parent = "-"
		}
		rows = append(rows, []string{
			name,
			parent,
			info.Root,
			strconv.Itoa(info.Rules),
			strconv.Itoa(info.Inserted),
			strconv.Itoa(info.Replaced),
			strconv.Itoa(info.Reserved),
		})
	}
	r.Table([]string{"Name", "Parent", "Root", "Rules", "Inserted", "Replaced", "Reserved"}, rows)
	r.Println(r.Muted("* selected dialect"))
	return nil
}
