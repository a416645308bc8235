package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/phasebench/phasebench/benchmark"
)

// NewListCmd creates the list command.
func NewListCmd(launcher *benchmark.Launcher) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered benchmarks",
		Long: `List prints the name of every registered benchmark whose name fully matches
the filter, one per line.

Examples:
  # List all benchmarks
  phasebench list

  # List the benchmarks with their launch settings
  phasebench list --settings -f 'queue.*'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := cmd.Flags().GetString("filter")
			if err != nil {
				return err
			}
			settings, err := cmd.Flags().GetBool("settings")
			if err != nil {
				return err
			}
			if settings {
				return listBenchmarkSettings(cmd.OutOrStdout(), launcher, filter)
			}
			return listBenchmarks(cmd.OutOrStdout(), launcher, filter)
		},
	}

	cmd.Flags().StringP("filter", "f", "",
		"Filter benchmarks by the given regexp pattern")
	cmd.Flags().Bool("settings", false,
		"Show attempts, limits and thread plans as a table")

	return cmd
}

// listBenchmarks prints the names of the matching benchmarks.
func listBenchmarks(w io.Writer, launcher *benchmark.Launcher, filter string) error {
	benchmarks, err := launcher.Filter(filter)
	if err != nil {
		return err
	}
	for _, b := range benchmarks {
		if _, err := fmt.Fprintln(w, b.Name()); err != nil {
			return err
		}
	}
	return nil
}

// listBenchmarkSettings prints the matching benchmarks with their settings.
func listBenchmarkSettings(w io.Writer, launcher *benchmark.Launcher, filter string) error {
	benchmarks, err := launcher.Filter(filter)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Name", "Attempts", "Limit", "Threads", "Producers/Consumers", "Params")
	for _, b := range benchmarks {
		s := b.Settings()
		if err := table.Append(
			b.Name(),
			strconv.Itoa(s.Attempts()),
			describeLimit(s),
			joinInts(s.Threads()),
			describePC(s.PC()),
			strconv.Itoa(len(s.Params())),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func describeLimit(s *benchmark.Settings) string {
	switch {
	case s.Infinite():
		return "infinite"
	case s.Operations() > 0:
		return strconv.FormatInt(s.Operations(), 10) + " ops"
	default:
		return s.Duration().String()
	}
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func describePC(pairs []benchmark.PCPair) string {
	if len(pairs) == 0 {
		return "-"
	}
	parts := make([]string, len(pairs))
	for i, pair := range pairs {
		parts[i] = strconv.Itoa(pair.Producers) + "/" + strconv.Itoa(pair.Consumers)
	}
	return strings.Join(parts, ",")
}
