// # Naming Conventions
//
//   - Display* functions write formatted, colorized output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayResults], [DisplayProgress].
//
//   - Format* functions return a string without performing I/O.
//     Examples: [FormatQuietResult], [FormatResultLine].
//
//   - Write* functions write to the filesystem.
//     Example: [WriteResultsToFile].

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/numfmt/internal/format"
	"github.com/agbru/numfmt/internal/orchestration"
	"github.com/agbru/numfmt/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path results are saved to (empty for none).
	OutputFile string
	// Quiet prints bare results, one per line, for scripting.
	Quiet bool
	// Verbose adds the request and timing to every result.
	Verbose bool
}

// FormatQuietResult returns the bare result, or "error: <msg>" on failure.
func FormatQuietResult(res orchestration.Result) string {
	if res.Err != nil {
		return "error: " + res.Err.Error()
	}
	return res.Value()
}

// FormatResultLine returns "request => result" without colors, the form
// used in result files.
func FormatResultLine(res orchestration.Result) string {
	return res.Request.String() + " => " + FormatQuietResult(res)
}

// DisplayResult writes one result. Verbose output includes the request and
// the conversion time.
func DisplayResult(res orchestration.Result, verbose bool, out io.Writer) {
	if res.Err != nil {
		fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorRed(), res.Err, ui.ColorReset())
		return
	}
	if !verbose {
		fmt.Fprintf(out, "%s%s%s\n", ui.ColorGreen(), res.Value(), ui.ColorReset())
		return
	}
	fmt.Fprintf(out, "%s%s%s => %s%s%s %s(%s, %d bytes)%s\n",
		ui.ColorMagenta(), res.Request, ui.ColorReset(),
		ui.ColorGreen(), res.Value(), ui.ColorReset(),
		ui.ColorCyan(), format.FormatExecutionDuration(res.Duration), len(res.Value()), ui.ColorReset())
}

// DisplayResults writes every result according to config and saves them to
// config.OutputFile when set.
func DisplayResults(results []orchestration.Result, config OutputConfig, out io.Writer) error {
	for _, res := range results {
		if config.Quiet {
			fmt.Fprintln(out, FormatQuietResult(res))
			continue
		}
		DisplayResult(res, config.Verbose, out)
	}

	if config.OutputFile == "" {
		return nil
	}
	if err := WriteResultsToFile(results, config.OutputFile); err != nil {
		return err
	}
	if !config.Quiet {
		fmt.Fprintf(out, "%s✓ Results saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
	}
	return nil
}

// WriteResultsToFile writes a header and one "request => result" line per
// result to path, creating parent directories as needed.
func WriteResultsToFile(results []orchestration.Result, path string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	summary := orchestration.Summarize(results)
	fmt.Fprintf(w, "# numfmt results\n")
	fmt.Fprintf(w, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "# Requests: %d (%d failed)\n\n", summary.Total, summary.Failed)
	for _, res := range results {
		fmt.Fprintln(w, FormatResultLine(res))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return file.Close()
}
