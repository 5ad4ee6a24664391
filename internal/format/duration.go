// Package format holds the small, pure formatting helpers shared by the CLI,
// REPL and TUI presentation layers.
package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration renders d at a resolution suited to conversion
// timings: microseconds below a millisecond, milliseconds below a second,
// and time.Duration's own form above. A zero duration renders as "< 1µs".
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "< 1µs"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", max(d.Microseconds(), 1))
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}
