package console

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phasebench/phasebench/benchmark"
)

// NewRootCmd creates the root command launching the benchmarks held by
// launcher.
func NewRootCmd(launcher *benchmark.Launcher) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phasebench",
		Short: "Launch micro-benchmarks and report their phases",
		Long: `phasebench launches the registered micro-benchmarks, measures every phase
of every launch and reports the best attempt as console text, CSV, JSON or
Markdown.

Without a subcommand all benchmarks are launched, as with 'phasebench run'.
Runs saved with --save can be listed with 'phasebench history' and compared
with 'phasebench compare'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRunCmd(cmd, launcher)
		},
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .phasebench in current or home directory)")
	cmd.PersistentFlags().String("db-dir", "",
		"Directory of the run history database (default: XDG data directory)")

	addRunFlags(cmd)

	cmd.AddCommand(NewRunCmd(launcher))
	cmd.AddCommand(NewListCmd(launcher))
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command over the default launcher.
func Execute() {
	if err := NewRootCmd(benchmark.Default()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
