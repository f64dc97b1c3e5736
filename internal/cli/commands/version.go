package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/dialect"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display LeapParse version, build information and the registered dialects.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "LeapParse v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Structural SQL parser built with %s\n", runtime.Version())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dialects: %s\n", strings.Join(dialect.List(), ", "))
		},
	}
}
