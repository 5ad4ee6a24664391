// Package cli provides the command-line presentation of numfmt: one-shot
// and batch output, the progress spinner, and the interactive REPL.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agbru/numfmt/internal/config"
	"github.com/agbru/numfmt/internal/metrics"
	"github.com/agbru/numfmt/internal/numfmt"
	"github.com/agbru/numfmt/internal/orchestration"
	"github.com/agbru/numfmt/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// MaxBuffer is the initial output buffer limit in bytes (0 = none).
	MaxBuffer int
	// Observer, when set, is notified of every text conversion.
	Observer numfmt.Observer
	// Verbose shows timings and output sizes.
	Verbose bool
}

// commandAliases maps REPL shorthands to operation names.
var commandAliases = map[string]string{
	"int":     numfmt.OpToStrInt.String(),
	"float":   numfmt.OpToStrFloat.String(),
	"ints":    numfmt.OpArrayToStrInt.String(),
	"floats":  numfmt.OpArrayToStrFloat.String(),
	"toint":   numfmt.OpToInt.String(),
	"tofloat": numfmt.OpToFloat.String(),
	"str":     orchestration.OpToStr,
}

// REPL is an interactive conversion session.
type REPL struct {
	config      REPLConfig
	formatter   *numfmt.Formatter
	memory      *metrics.MemoryCollector
	start       metrics.MemorySnapshot
	conversions int
	failures    int
	in          io.Reader
	out         io.Writer
}

// NewREPL creates a REPL reading from stdin and writing to stdout.
func NewREPL(config REPLConfig) *REPL {
	r := &REPL{
		config: config,
		memory: metrics.NewMemoryCollector(),
		in:     os.Stdin,
		out:    os.Stdout,
	}
	r.start = r.memory.Snapshot()
	r.setLimit(config.MaxBuffer)
	return r
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

func (r *REPL) setLimit(limit int) {
	r.config.MaxBuffer = limit
	opts := []numfmt.Option{numfmt.WithMaxBuffer(limit)}
	if r.config.Observer != nil {
		opts = append(opts, numfmt.WithObserver(r.config.Observer))
	}
	r.formatter = numfmt.New(opts...)
}

// Start reads and executes commands until "exit" or end of input.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"numfmt> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}
		if line := strings.TrimSpace(input); line != "" {
			if !r.processCommand(line) {
				return
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s┌────────────────────────────────────────────┐%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s│%s  %snumfmt%s - interactive numeric formatting  %s│%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s└────────────────────────────────────────────┘%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	cmd := func(name, desc string) {
		fmt.Fprintf(r.out, "  %s%-18s%s %s\n", ui.ColorYellow(), name, ui.ColorReset(), desc)
	}
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	cmd("int <n>", "Format an integer (to_str_int)")
	cmd("float <x>", "Format a float with 6 decimals (to_str_float)")
	cmd("ints <n>...", "Format an integer sequence (array_to_str_int)")
	cmd("floats <x>...", "Format a float sequence (array_to_str_float)")
	cmd("toint <x>", "Truncate a float toward zero (to_int)")
	cmd("tofloat <n>", "Convert an integer to a float (to_float)")
	cmd("<op> <v>...", "Run any operation by name, e.g. array_to_str_int 1 2")
	cmd("<value>", "Format a single number (to_str)")
	cmd("limit [size|off]", "Show or set the output buffer limit, e.g. limit 16B")
	cmd("status", "Show session statistics and memory usage")
	cmd("help", "Display this help")
	cmd("exit / quit", "Exit interactive mode")
}

// processCommand executes one input line. It returns false to end the session.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "limit":
		r.cmdLimit(args)
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		if op, ok := commandAliases[cmd]; ok {
			r.run(op, args)
		} else if _, err := orchestration.ParseOp(cmd); err == nil || cmd == orchestration.OpToStr {
			r.run(cmd, args)
		} else if len(parts) == 1 && looksNumeric(cmd) {
			r.run(orchestration.OpToStr, parts)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		}
	}
	return true
}

func looksNumeric(s string) bool {
	_, err := orchestration.ParseRequest(orchestration.OpToStr, []string{s})
	return err == nil
}

func (r *REPL) run(op string, args []string) {
	req, err := orchestration.ParseRequest(op, args)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	res := orchestration.Convert(r.formatter, req)
	r.conversions++
	if res.Err != nil {
		r.failures++
	}
	DisplayResult(res, r.config.Verbose, r.out)
}

func (r *REPL) cmdLimit(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Output buffer limit: %s%s%s\n", ui.ColorCyan(), r.limitString(), ui.ColorReset())
		return
	}
	arg := args[0]
	if strings.EqualFold(arg, "off") || strings.EqualFold(arg, "none") {
		arg = "0"
	}
	limit, err := config.ParseByteSize(arg)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid size: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	r.setLimit(limit)
	fmt.Fprintf(r.out, "Output buffer limit set to: %s%s%s\n", ui.ColorGreen(), r.limitString(), ui.ColorReset())
}

func (r *REPL) limitString() string {
	if r.config.MaxBuffer <= 0 {
		return "none"
	}
	return fmt.Sprintf("%d bytes", r.config.MaxBuffer)
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sSession:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Conversions:  %s%d%s (%d failed)\n", ui.ColorCyan(), r.conversions, ui.ColorReset(), r.failures)
	fmt.Fprintf(r.out, "  Buffer limit: %s%s%s\n", ui.ColorCyan(), r.limitString(), ui.ColorReset())
	verbose := "off"
	if r.config.Verbose {
		verbose = "on"
	}
	fmt.Fprintf(r.out, "  Verbose:      %s%s%s\n", ui.ColorCyan(), verbose, ui.ColorReset())
	DisplayMemoryStats(r.start, r.memory.Snapshot(), r.out)
	fmt.Fprintln(r.out)
}
