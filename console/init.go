package console

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/phasebench/phasebench/internal/config"
)

//go:embed templates/phasebench.yaml
var defaultConfig []byte

// NewInitCmd returns the command that writes a starter configuration.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter benchmark configuration",
		Long: `Write a commented YAML configuration that "phasebench run" reads.

The file sets launch defaults (attempts, duration or operation limits,
latency histogram bounds) and shows how a single benchmark, selected by
name, overrides them. Every key is optional; delete what you do not need.

Examples:
  phasebench init
  phasebench init -o bench/phasebench.yaml
  phasebench init --force`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Where to write the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Replace a configuration that is already there")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, pass --force to replace it", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
	}

	f, err := createOutputFile(path)
	if err != nil {
		return err
	}
	_, err = f.Write(defaultConfig)
	closeOutput(f, &err)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s. Point \"phasebench run --config\" at it, or keep it in the working directory.\n", path)
	return nil
}
