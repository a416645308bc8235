package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "phasebench"

	// DefaultOutput prints colored text meant for a terminal.
	DefaultOutput = "console"

	// DefaultHistogramsDir is where latency histogram files are written
	// when no directory is given.
	DefaultHistogramsDir = "."

	// DefaultHistoryLimit is the number of runs the history command lists.
	// Older runs stay in the database; --limit 0 lists them all.
	DefaultHistoryLimit = 20
)

// Outputs lists the accepted values of Config.Output.
var Outputs = []string{"console", "csv", "json", "markdown"}

// Config holds all options of the console launcher.
// It is populated from CLI flags on top of NewConfig defaults and passed
// through the commands rather than kept in global state.
type Config struct {
	// Filter is a regular expression that benchmark names must fully
	// match to be launched. Empty launches every benchmark.
	Filter string

	// Output is the report format, one of Outputs.
	Output string

	// OutputFile is the report destination. Empty writes to stdout.
	// Parent directories are created automatically.
	OutputFile string

	// Quiet suppresses the launch progress printed to stderr.
	Quiet bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// NoColor disables console report colors. Colors are also disabled
	// when stdout is not a terminal.
	NoColor bool

	// Histograms is the resolution of latency histogram files, in ticks
	// per half distance. Zero disables histogram files.
	Histograms int

	// HistogramsDir is the directory for latency histogram files.
	HistogramsDir string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .phasebench in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Overrides holds the benchmark setting overrides loaded from the
	// configuration file. Nil when no file was found.
	Overrides *File

	// DBDir is the directory of the run history database.
	// Defaults to the XDG data directory (~/.local/share/phasebench on Linux).
	DBDir string

	// SaveToDB stores the run in the history database after reporting.
	SaveToDB bool

	// HistoryLimit is the number of runs listed by the history command.
	HistoryLimit int
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Output:        DefaultOutput,
		HistogramsDir: DefaultHistogramsDir,
		DBDir:         XDGDataDir(),
		HistoryLimit:  DefaultHistoryLimit,
	}
}

// XDGDataDir returns the XDG data directory for phasebench.
// On Linux: ~/.local/share/phasebench
// On macOS: ~/Library/Application Support/phasebench
// On Windows: %LOCALAPPDATA%\phasebench
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for phasebench.
// On Linux: ~/.config/phasebench
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if !slices.Contains(Outputs, c.Output) {
		return fmt.Errorf("%w: %q", ErrInvalidOutput, c.Output)
	}

	if c.Histograms < 0 {
		return ErrInvalidHistograms
	}

	if c.Filter != "" {
		if _, err := regexp.Compile(c.Filter); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
		}
	}

	if c.HistoryLimit < 0 {
		return ErrInvalidHistoryLimit
	}

	if c.Overrides != nil {
		if err := c.Overrides.Validate(); err != nil {
			return err
		}
	}

	return nil
}
