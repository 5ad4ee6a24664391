package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/numfmt/internal/format"
	"github.com/agbru/numfmt/internal/metrics"
	"github.com/agbru/numfmt/internal/orchestration"
	"github.com/agbru/numfmt/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with the
// spinner and progress bar of DisplayProgress.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, total int, out io.Writer) {
	DisplayProgress(wg, progressChan, total, out)
}

// DisplaySummary writes the per-operation table and totals of a batch run.
func DisplaySummary(results []orchestration.Result, elapsed time.Duration, out io.Writer) {
	type row struct {
		op       string
		ok, fail int
		busy     time.Duration
	}
	var rows []*row
	byOp := make(map[string]*row)
	for _, res := range results {
		name := res.Request.Op.String()
		r, found := byOp[name]
		if !found {
			r = &row{op: name}
			byOp[name] = r
			rows = append(rows, r)
		}
		r.busy += res.Duration
		if res.Err != nil {
			r.fail++
		} else {
			r.ok++
		}
	}

	fmt.Fprintf(out, "\n--- Batch Summary ---\n")
	nameWidth := len("Operation")
	for _, r := range rows {
		nameWidth = max(nameWidth, len(r.op))
	}

	// Manual padding keeps columns aligned when cells carry ANSI codes.
	fmt.Fprintf(out, "%sOperation%s%s   %sOK%s      %sFailed%s  %sTime%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", nameWidth-len("Operation")),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())
	for _, r := range rows {
		failColor := ui.ColorGreen()
		if r.fail > 0 {
			failColor = ui.ColorRed()
		}
		fmt.Fprintf(out, "%s%s%s%s   %-6d  %s%-6d%s  %s%s%s\n",
			ui.ColorBlue(), r.op, ui.ColorReset(), padRight("", nameWidth-len(r.op)),
			r.ok,
			failColor, r.fail, ui.ColorReset(),
			ui.ColorYellow(), format.FormatExecutionDuration(r.busy), ui.ColorReset())
	}

	s := orchestration.Summarize(results)
	fmt.Fprintf(out, "\n%d requests, %s%d succeeded%s, ", s.Total, ui.ColorGreen(), s.Succeeded, ui.ColorReset())
	if s.Failed > 0 {
		fmt.Fprintf(out, "%s%d failed%s", ui.ColorRed(), s.Failed, ui.ColorReset())
	} else {
		fmt.Fprint(out, "0 failed")
	}
	fmt.Fprintf(out, " in %s.\n", format.FormatExecutionDuration(elapsed))
}

func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// DisplayMemoryStats shows the allocator activity between two snapshots.
func DisplayMemoryStats(before, after metrics.MemorySnapshot, out io.Writer) {
	bytes, objects := after.AllocatedSince(before)
	fmt.Fprintf(out, "Memory:\n")
	fmt.Fprintf(out, "  Live heap:        %s\n", format.FormatBytes(after.HeapAlloc))
	fmt.Fprintf(out, "  Allocated since:  %s in %d objects\n", format.FormatBytes(bytes), objects)
	fmt.Fprintf(out, "  Obtained from OS: %s\n", format.FormatBytes(after.Sys))
	fmt.Fprintf(out, "  GC cycles:        %d\n", after.NumGC)
}
