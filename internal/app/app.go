// Package app wires configuration, logging, metrics and the numfmt formatter
// together and dispatches to the selected mode.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/numfmt/internal/cli"
	"github.com/agbru/numfmt/internal/config"
	apperrors "github.com/agbru/numfmt/internal/errors"
	"github.com/agbru/numfmt/internal/logging"
	"github.com/agbru/numfmt/internal/metrics"
	"github.com/agbru/numfmt/internal/numfmt"
	"github.com/agbru/numfmt/internal/orchestration"
	"github.com/agbru/numfmt/internal/server"
	"github.com/agbru/numfmt/internal/tui"
	"github.com/agbru/numfmt/internal/ui"
)

// Application represents the numfmt application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// In is read by batch mode ("-") and the REPL.
	In io.Reader

	logger    logging.Logger
	collector *metrics.Collector
	// maxBuffer is the validated --max-buffer limit in bytes.
	maxBuffer int
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithInput replaces os.Stdin as the application input.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// OperationNames lists the operation names accepted on the command line.
func OperationNames() []string {
	names := make([]string, 0, len(numfmt.Ops)+1)
	names = append(names, orchestration.OpToStr)
	for _, op := range numfmt.Ops {
		names = append(names, op.String())
	}
	return names
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}

	programName := "numfmt"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, OperationNames())
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode and returns
// the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	a.setupLogging()
	ui.InitTheme(a.Config.NoColor)
	a.collector = metrics.NewCollector()

	f, err := a.formatter()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	mode := a.Config.Mode()
	a.logger.Debug("starting", logging.String("mode", mode.String()), logging.String("version", Version))

	switch mode {
	case config.ModeServe:
		return a.runServer(ctx, f)
	case config.ModeTUI:
		return a.runTUI(ctx, f)
	case config.ModeInteractive:
		return a.runREPL(out)
	case config.ModeBatch:
		return a.runBatch(ctx, f, out)
	default:
		return a.runOneShot(f, out)
	}
}

func (a *Application) setupLogging() {
	switch {
	case a.Config.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case a.Config.Quiet:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if a.Config.JSONLogs {
		a.logger = logging.NewLogger(a.ErrWriter, "numfmt")
	} else {
		a.logger = logging.NewConsoleLogger(a.ErrWriter, "numfmt")
	}
}

func (a *Application) formatter() (*numfmt.Formatter, error) {
	limit, err := a.Config.MaxBufferBytes()
	if err != nil {
		return nil, apperrors.NewConfigError("invalid --max-buffer: %v", err)
	}
	a.maxBuffer = limit
	return numfmt.New(numfmt.WithMaxBuffer(limit), numfmt.WithObserver(a.collector)), nil
}

// withLifecycle bounds ctx by the configured timeout and SIGINT/SIGTERM.
func (a *Application) withLifecycle(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

func (a *Application) outputConfig() cli.OutputConfig {
	return cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}
}

func (a *Application) runOneShot(f *numfmt.Formatter, out io.Writer) int {
	req, err := orchestration.ParseRequest(a.Config.Op, a.Config.Values)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	res := orchestration.Convert(f, req)
	if err := cli.DisplayResults([]orchestration.Result{res}, a.outputConfig(), out); err != nil {
		a.logger.Error("failed to save results", err, logging.String("path", a.Config.OutputFile))
		return apperrors.ExitErrorGeneric
	}
	if res.Err != nil {
		a.logger.Debug("conversion failed", logging.String("op", req.Op.String()), logging.Err(res.Err))
	}
	return apperrors.ExitCodeFor(res.Err)
}

func (a *Application) runBatch(ctx context.Context, f *numfmt.Formatter, out io.Writer) int {
	reqs, err := a.readBatch()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	ctx, cancel := a.withLifecycle(ctx)
	defer cancel()

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	start := time.Now()
	results := orchestration.ExecuteConversions(ctx, f, reqs, a.Config.Concurrency, reporter, progressOut)
	elapsed := time.Since(start)

	if err := cli.DisplayResults(results, a.outputConfig(), out); err != nil {
		a.logger.Error("failed to save results", err, logging.String("path", a.Config.OutputFile))
		return apperrors.ExitErrorGeneric
	}
	if !a.Config.Quiet {
		cli.DisplaySummary(results, elapsed, out)
	}

	summary := orchestration.Summarize(results)
	a.logger.Debug("batch finished",
		logging.Int("requests", summary.Total),
		logging.Int("failed", summary.Failed),
		logging.String("elapsed", elapsed.String()))
	return apperrors.ExitCodeFor(summary.FirstErr)
}

func (a *Application) readBatch() ([]orchestration.Request, error) {
	if a.Config.Batch == "-" {
		return cli.ReadRequests(a.In)
	}
	file, err := os.Open(a.Config.Batch)
	if err != nil {
		return nil, fmt.Errorf("opening batch file: %w", err)
	}
	defer file.Close()
	return cli.ReadRequests(file)
}

func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(cli.REPLConfig{
		MaxBuffer: a.maxBuffer,
		Observer:  a.collector,
		Verbose:   a.Config.Verbose,
	})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runTUI launches the interactive converter. It is bounded by signals only;
// the timeout does not apply to interactive sessions.
func (a *Application) runTUI(ctx context.Context, f *numfmt.Formatter) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	return tui.Run(ctx, f, a.Config.Concurrency, Version)
}

func (a *Application) runServer(ctx context.Context, f *numfmt.Formatter) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	sec := server.DefaultSecurityConfig()
	sec.AllowedOrigins = a.Config.AllowedOrigins
	sec.MaxValues = a.Config.MaxValues

	s := server.NewServer(a.Config.Serve,
		server.WithFormatter(f),
		server.WithMetrics(server.NewMetricsWithCollector(a.collector)),
		server.WithLogger(a.logger),
		server.WithSecurityConfig(sec),
	)
	if err := s.Start(ctx); err != nil {
		a.logger.Error("server failed", err, logging.String("addr", a.Config.Serve))
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// ExitCodeForStartup maps an error returned by New to a process exit code.
func ExitCodeForStartup(err error) int {
	if IsHelpError(err) {
		return apperrors.ExitSuccess
	}
	return apperrors.ExitCodeFor(err)
}
