// Package cli provides the command-line interface for LeapParse.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapparse/internal/cli/commands"
	"github.com/leapstack-labs/leapparse/internal/cli/config"
	"github.com/leapstack-labs/leapparse/internal/cli/output"
	"github.com/leapstack-labs/leapparse/pkg/dialect"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leapparse",
		Short: "LeapParse - Structural SQL Parser",
		Long: `LeapParse parses SQL into a lossless segment tree using composable,
per-dialect grammars.

Dialects inherit from a parent and patch its rules. Parsing is best effort:
whatever a dialect cannot match is kept as unparsable segments so every
character of the input survives into the tree.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			// Flags merged from the root and the running command
			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			level := cfg.SlogLevel()
			if cfg.Verbose && level > slog.LevelInfo {
				level = slog.LevelInfo
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})).
				With("run_id", uuid.NewString())
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))

			// Print config file used (if verbose)
			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", configFile)
				}
			}
			logger.Debug("configuration loaded", "dialect", cfg.Dialect, "output", cfg.Output, "workers", cfg.Workers)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Structural SQL parser
`)

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./leapparse.yaml, searched upwards)")
	flags.StringP("dialect", "d", "", "SQL dialect (default: ansi)")
	flags.StringP("output", "o", "", "Output format (auto|text|markdown|json|yaml)")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.Int("max-depth", 0, "Maximum rule nesting depth, 0 for unlimited")
	flags.Int("max-steps", 0, "Maximum match steps per statement, 0 for unlimited")
	flags.Int("workers", 0, "Files parsed concurrently (default: number of CPUs)")
	flags.Duration("timeout", 0, "Abandon a parse after this long, 0 for no limit")
	flags.StringSlice("extensions", nil, "File extensions parsed when walking directories (default: .sql)")
	flags.Bool("show-non-code", false, "Include whitespace and comments in trees")
	flags.Bool("strict", false, "Fail when any input has unparsable regions")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, 0, len(output.Modes))
		for _, m := range output.Modes {
			modes = append(modes, string(m))
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})

	// Register completion for dialect flag
	_ = rootCmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dialect.List(), cobra.ShellCompDirectiveNoFileComp
	})

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewMatchCommand())
	rootCmd.AddCommand(commands.NewDialectsCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewREPLCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for LeapParse.

To load completions:

Bash:
  $ source <(leapparse completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ leapparse completion bash > /etc/bash_completion.d/leapparse
  # macOS:
  $ leapparse completion bash > $(brew --prefix)/etc/bash_completion.d/leapparse

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ leapparse completion zsh > "${fpath[1]}/_leapparse"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ leapparse completion fish | source

  # To load completions for each session, execute once:
  $ leapparse completion fish > ~/.config/fish/completions/leapparse.fish

PowerShell:
  PS> leapparse completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> leapparse completion powershell > leapparse.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
