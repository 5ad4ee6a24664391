package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/numfmt/internal/format"
	"github.com/agbru/numfmt/internal/metrics"
	"github.com/agbru/numfmt/internal/sysmon"
)

// HeaderModel renders the top bar: title, version, conversion counters and
// heap and system usage.
type HeaderModel struct {
	version     string
	width       int
	conversions int
	failures    int
	mem         metrics.MemorySnapshot
	sys         sysmon.Stats
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{version: version}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// Count adds a batch of conversions to the counters.
func (h *HeaderModel) Count(total, failed int) {
	h.conversions += total
	h.failures += failed
}

// SetMemory updates the heap reading.
func (h *HeaderModel) SetMemory(s metrics.MemorySnapshot) { h.mem = s }

// SetSystem updates the system-wide CPU and memory reading.
func (h *HeaderModel) SetSystem(s sysmon.Stats) { h.sys = s }

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "numfmt"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")
	left := titleStyle.Render(titleText) + pipe +
		dimStyle.Render(fmt.Sprintf("%d conversions, %d failed", h.conversions, h.failures))

	right := ""
	if h.mem.HeapAlloc > 0 {
		right = dimStyle.Render("heap " + format.FormatBytes(h.mem.HeapAlloc))
	}
	if h.sys.Valid() {
		if right != "" {
			right += pipe
		}
		right += dimStyle.Render(fmt.Sprintf("cpu %.0f%% mem %.0f%%", h.sys.CPUPercent, h.sys.MemPercent))
	}

	gap := max(h.width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return headerStyle.Render(left + spaces(gap) + right)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
