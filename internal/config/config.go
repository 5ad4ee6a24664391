// Package config parses and validates the numfmt command line, with
// environment variable and YAML file overrides.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/numfmt/internal/errors"
)

// EnvPrefix prefixes every environment variable read by numfmt.
const EnvPrefix = "NUMFMT_"

// Defaults applied when neither a flag, an environment variable nor the
// config file provides a value.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 0 // unbounded
	DefaultMaxValues   = 10_000
)

// Mode identifies what the application does for one invocation.
type Mode int

// Application modes. Exactly one is active per invocation.
const (
	ModeOneShot Mode = iota
	ModeBatch
	ModeInteractive
	ModeTUI
	ModeServe
)

// String returns the mode name used in logs.
func (m Mode) String() string {
	switch m {
	case ModeBatch:
		return "batch"
	case ModeInteractive:
		return "interactive"
	case ModeTUI:
		return "tui"
	case ModeServe:
		return "serve"
	default:
		return "one-shot"
	}
}

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Op is the conversion for one-shot mode.
	Op string
	// Values are the positional arguments of the one-shot conversion.
	Values []string
	// Batch is a file of "op v1 v2 ..." lines, or "-" for stdin.
	Batch string
	// Interactive starts the REPL.
	Interactive bool
	// TUI starts the terminal dashboard.
	TUI bool
	// Serve is the HTTP listen address; empty disables the server.
	Serve string
	// MaxBuffer limits output buffers, e.g. "64KB". Empty means no limit.
	MaxBuffer string
	// Concurrency bounds in-flight batch conversions; 0 is unbounded.
	Concurrency int
	// Timeout bounds the whole invocation (not used by serve mode).
	Timeout time.Duration
	// OutputFile receives batch or one-shot results when set.
	OutputFile string
	// Quiet prints bare results only.
	Quiet bool
	// Verbose enables debug logging.
	Verbose bool
	// NoColor disables ANSI colors.
	NoColor bool
	// JSONLogs switches logs from console to JSON format.
	JSONLogs bool
	// ConfigFile is the YAML file the configuration was loaded from.
	ConfigFile string
	// AllowedOrigins lists CORS origins accepted by the server.
	AllowedOrigins []string
	// MaxValues caps the number of values in one server request.
	MaxValues int
}

// Mode reports the active mode. Serve wins over TUI, TUI over the REPL and
// the REPL over batch; Validate rejects configurations selecting several.
func (c AppConfig) Mode() Mode {
	switch {
	case c.Serve != "":
		return ModeServe
	case c.TUI:
		return ModeTUI
	case c.Interactive:
		return ModeInteractive
	case c.Batch != "":
		return ModeBatch
	default:
		return ModeOneShot
	}
}

// MaxBufferBytes returns the parsed MaxBuffer limit (0 when unset).
func (c AppConfig) MaxBufferBytes() (int, error) {
	return ParseByteSize(c.MaxBuffer)
}

// ParseConfig parses the command-line arguments, then applies the YAML
// config file and NUMFMT_* environment variables for every flag that was not
// given explicitly. Priority: CLI flags > environment > config file > defaults.
//
// Parameters:
//   - programName: The program name used in usage output.
//   - args: The command-line arguments without the program name.
//   - errorWriter: Where flag errors and usage are written.
//   - availableOps: The operation names accepted in one-shot mode.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp, a parse error, or an apperrors.ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableOps []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	var origins string
	fs.StringVar(&config.Op, "op", "", "Conversion to run ("+strings.Join(availableOps, ", ")+").")
	fs.StringVar(&config.Batch, "batch", "", "Run every \"op v1 v2 ...\" line of a file (\"-\" for stdin).")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start the interactive REPL.")
	fs.BoolVar(&config.Interactive, "i", false, "Shorthand for --interactive.")
	fs.BoolVar(&config.TUI, "tui", false, "Start the terminal dashboard.")
	fs.StringVar(&config.Serve, "serve", "", "Serve conversions over HTTP on this address (e.g. :8080).")
	fs.StringVar(&config.MaxBuffer, "max-buffer", "", "Largest output buffer to allocate (e.g. 4KB, 1MiB).")
	fs.IntVar(&config.Concurrency, "concurrency", DefaultConcurrency, "Maximum concurrent batch conversions (0 = unbounded).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum run time.")
	fs.StringVar(&config.OutputFile, "output", "", "Write results to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for --output.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print bare results only.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&config.JSONLogs, "json-logs", false, "Emit logs as JSON.")
	fs.StringVar(&config.ConfigFile, "config", "", "YAML configuration file.")
	fs.IntVar(&config.MaxValues, "max-values", DefaultMaxValues, "Maximum values per server request.")
	fs.StringVar(&origins, "cors-origins", "*", "Comma-separated CORS origins accepted by the server.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	config.AllowedOrigins = splitList(origins)

	if !isFlagSet(fs, "config") {
		config.ConfigFile = lookupEnv("CONFIG", config.ConfigFile)
	}
	if config.ConfigFile != "" {
		fc, err := LoadFile(config.ConfigFile)
		if err != nil {
			return AppConfig{}, apperrors.NewConfigError("%v", err)
		}
		fc.apply(&config, fs)
	}

	applyEnvOverrides(&config, fs)
	config.Op, config.Values = splitPositional(fs, config.Op, fs.Args(), availableOps)

	if err := config.Validate(availableOps); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the semantic validity of the configuration.
//
// Returns:
//   - error: An apperrors.ConfigError describing the first problem found.
func (c AppConfig) Validate(availableOps []string) error {
	modes := 0
	for _, on := range []bool{c.Serve != "", c.TUI, c.Interactive, c.Batch != ""} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return apperrors.NewConfigError("--serve, --tui, --interactive and --batch are mutually exclusive")
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Concurrency < 0 {
		return apperrors.NewConfigError("concurrency must be zero or positive, got %d", c.Concurrency)
	}
	if c.MaxValues <= 0 {
		return apperrors.NewConfigError("max-values must be strictly positive, got %d", c.MaxValues)
	}
	if _, err := c.MaxBufferBytes(); err != nil {
		return apperrors.NewConfigError("invalid --max-buffer: %v", err)
	}

	if c.Mode() != ModeOneShot {
		return nil
	}
	if c.Op == "" {
		return apperrors.NewConfigError("no operation given; use --op, --batch, --interactive, --tui or --serve")
	}
	if len(availableOps) > 0 && !slices.Contains(availableOps, normalizeOp(c.Op)) {
		return apperrors.NewConfigError("unrecognized operation: '%s'. Valid operations: %s", c.Op, strings.Join(availableOps, ", "))
	}
	return nil
}

// splitPositional separates the operation from the values. A leading
// positional argument is the operation when --op is absent and either no
// operation came from the environment or file, or it names a known
// operation itself.
func splitPositional(fs *flag.FlagSet, op string, positional, availableOps []string) (string, []string) {
	if len(positional) == 0 || isFlagSet(fs, "op") {
		return op, positional
	}
	if op == "" || slices.Contains(availableOps, normalizeOp(positional[0])) {
		return positional[0], positional[1:]
	}
	return op, positional
}

func normalizeOp(op string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(op)), "-", "_")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
