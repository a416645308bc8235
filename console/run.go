package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phasebench/phasebench/benchmark"
	"github.com/phasebench/phasebench/internal/config"
	"github.com/phasebench/phasebench/internal/database"
	"github.com/phasebench/phasebench/internal/log"
	"github.com/phasebench/phasebench/internal/model"
	"github.com/phasebench/phasebench/report"
	"github.com/phasebench/phasebench/system"
)

// NewRunCmd creates the run command.
func NewRunCmd(launcher *benchmark.Launcher) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Launch benchmarks and report their results",
		Long: `Run launches every registered benchmark whose name fully matches the filter
and reports the best attempt of every launch.

Progress is printed to stderr; the report goes to stdout or --output-file.
Settings of individual benchmarks can be overridden in the configuration
file (see 'phasebench init').

Examples:
  # Launch all benchmarks
  phasebench run

  # Launch the sort benchmarks and write CSV
  phasebench run -f 'sort.*' -o csv

  # Write a Markdown report and keep the run for later comparison
  phasebench run -o markdown --output-file reports/latest.md --save

  # Write HDR latency histograms with resolution 5
  phasebench run -r 5 --histograms-dir hdr`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRunCmd(cmd, launcher)
		},
	}

	addRunFlags(cmd)

	return cmd
}

// addRunFlags registers the launch flags on cmd.
func addRunFlags(cmd *cobra.Command) {
	// Selection flags
	cmd.Flags().StringP("filter", "f", "",
		"Filter benchmarks by the given regexp pattern")
	cmd.Flags().BoolP("list", "l", false,
		"List all available benchmarks instead of launching them")

	// Report flags
	cmd.Flags().StringP("output", "o", config.DefaultOutput,
		"Output format (console, csv, json, markdown)")
	cmd.Flags().String("output-file", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-color", false,
		"Disable console colors")
	cmd.Flags().BoolP("quiet", "q", false,
		"Launch in quiet mode. No progress will be shown")

	// Histogram flags
	cmd.Flags().IntP("histograms", "r", 0,
		"Create HDR histogram files with the given resolution (0 disables)")
	cmd.Flags().String("histograms-dir", config.DefaultHistogramsDir,
		"Directory for HDR histogram files")

	// History flags
	cmd.Flags().BoolP("save", "s", false,
		"Save the run to the history database")
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, launcher *benchmark.Launcher) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if list {
		return listBenchmarks(cmd.OutOrStdout(), launcher, cfg.Filter)
	}

	// Set up structured logging
	logger := log.New(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)
	launcher.SetLogger(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runBenchmarks(ctx, cfg, launcher, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getStringFlag retrieves a string flag from the command or the root's
// persistent flags. Missing flags read as empty.
func getStringFlag(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return value
}

// getDBDir returns the --db-dir flag, or the XDG data directory.
func getDBDir(cmd *cobra.Command) string {
	if dir := getStringFlag(cmd, "db-dir"); dir != "" {
		return dir
	}
	return config.XDGDataDir()
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Filter, err = cmd.Flags().GetString("filter")
	if err != nil {
		return nil, err
	}

	cfg.Output, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output-file")
	if err != nil {
		return nil, err
	}

	cfg.NoColor, err = cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	cfg.Quiet, err = cmd.Flags().GetBool("quiet")
	if err != nil {
		return nil, err
	}

	cfg.Histograms, err = cmd.Flags().GetInt("histograms")
	if err != nil {
		return nil, err
	}

	cfg.HistogramsDir, err = cmd.Flags().GetString("histograms-dir")
	if err != nil {
		return nil, err
	}

	cfg.SaveToDB, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath = getStringFlag(cmd, "config")
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.DBDir = getDBDir(cmd)

	// Load benchmark overrides from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, run without overrides if no file found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.Overrides, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// runBenchmarks launches, reports and optionally saves the benchmarks.
func runBenchmarks(ctx context.Context, cfg *config.Config, launcher *benchmark.Launcher, stdout, stderr io.Writer, logger *slog.Logger) error {
	benchmarks, err := launcher.Filter(cfg.Filter)
	if err != nil {
		return err
	}
	if cfg.Overrides != nil {
		changed := cfg.Overrides.Apply(benchmarks)
		logger.Debug("applied benchmark overrides", "benchmarks", changed)
	}

	if cfg.Quiet {
		launcher.SetHandler(nil)
	} else {
		launcher.SetHandler(newProgress(stderr))
	}

	logger.Info("launching benchmarks", "filter", cfg.Filter, "count", len(benchmarks))

	if err := launcher.Launch(ctx, cfg.Filter); err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		// Report what finished before the interrupt.
		logger.Warn("launch interrupted, reporting finished benchmarks")
	}

	run, err := writeReport(cfg, launcher, stdout)
	if err != nil {
		return err
	}

	if cfg.Histograms > 0 {
		if err := launcher.ReportHistograms(cfg.HistogramsDir, int32(cfg.Histograms)); err != nil { //nolint:gosec // resolution is a small positive number
			return fmt.Errorf("failed to write histograms: %w", err)
		}
		logger.Info("histograms written", "dir", cfg.HistogramsDir)
	}

	if run != nil {
		// The run is saved even when the launch was interrupted.
		if err := saveRun(context.WithoutCancel(ctx), cfg.DBDir, run, logger); err != nil {
			return err
		}
		if !cfg.Quiet {
			fmt.Fprintf(stderr, "Saved run %s\n", run.ID)
		}
	}

	return nil
}

// writeReport writes the report in the configured format. When the run
// is to be saved it is collected during the same pass and returned.
func writeReport(cfg *config.Config, launcher *benchmark.Launcher, stdout io.Writer) (_ *model.Run, err error) {
	output := stdout
	if cfg.OutputFile != "" {
		f, ferr := createOutputFile(cfg.OutputFile)
		if ferr != nil {
			return nil, ferr
		}
		defer closeOutput(f, &err)
		output = f
	}

	opts := []report.Option{
		report.WithVersion(getVersion()),
		report.WithHost(system.Snapshot()),
		report.WithPrettyPrint(),
	}
	if cfg.NoColor || cfg.OutputFile != "" {
		opts = append(opts, report.WithColor(false))
	}

	reporter, err := report.New(report.Format(cfg.Output), output, opts...)
	if err != nil {
		return nil, err
	}

	var collector *report.Collector
	if cfg.SaveToDB {
		collector = report.NewCollector(opts...)
		reporter = report.NewMulti(reporter, collector)
	}

	if err := launcher.Report(reporter); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	if collector == nil {
		return nil, nil
	}
	return collector.Run(), nil
}

// createOutputFile creates path and its parent directories.
// Reports are written with owner-only permissions (0600).
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// closeOutput closes c and stores its error in err unless err is already set.
func closeOutput(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("failed to close output file: %w", cerr)
	}
}

// saveRun stores run in the history database under dbDir.
func saveRun(ctx context.Context, dbDir string, run *model.Run, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run saved to database", "id", run.ID, "path", db.Path())
	return nil
}
