package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used by text output.
type Styles struct {
	Header1   lipgloss.Style
	Header2   lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Rule      lipgloss.Style
	Leaf      lipgloss.Style
	Inherited lipgloss.Style
	Inserted  lipgloss.Style
	Replaced  lipgloss.Style
}

// NewStyles builds styles rendering for w with the given color profile.
// termenv.Ascii disables color entirely.
func NewStyles(w io.Writer, profile termenv.Profile) *Styles {
	lr := lipgloss.NewRenderer(w)
	lr.SetColorProfile(profile)

	return &Styles{
		Header1:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:   lr.NewStyle().Bold(true).Underline(true),
		Bold:      lr.NewStyle().Bold(true),
		Muted:     lr.NewStyle().Foreground(lipgloss.Color("8")),
		Success:   lr.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:   lr.NewStyle().Foreground(lipgloss.Color("11")),
		Error:     lr.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Info:      lr.NewStyle().Foreground(lipgloss.Color("14")),
		Rule:      lr.NewStyle().Foreground(lipgloss.Color("13")),
		Leaf:      lr.NewStyle().Foreground(lipgloss.Color("6")),
		Inherited: lr.NewStyle().Foreground(lipgloss.Color("8")),
		Inserted:  lr.NewStyle().Foreground(lipgloss.Color("10")),
		Replaced:  lr.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// FormatHeader returns a markdown header of the given level.
func FormatHeader(level int, text string) string {
	level = max(1, min(level, 6))
	return strings.Repeat("#", level) + " " + text + "\n"
}

// FormatKeyValue returns a markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s**: %s", key, value)
}

// FormatCode fences s as a markdown code block.
func FormatCode(lang, s string) string {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return "```" + lang + "\n" + s + "```"
}
