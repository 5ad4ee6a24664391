// Package tui implements the interactive terminal converter: a text input
// whose numbers are formatted by every applicable numfmt conversion.
package tui

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/numfmt/internal/errors"
	"github.com/agbru/numfmt/internal/metrics"
	"github.com/agbru/numfmt/internal/numfmt"
	"github.com/agbru/numfmt/internal/orchestration"
	"github.com/agbru/numfmt/internal/sysmon"
)

const (
	// TickInterval is the heap sampling period.
	TickInterval = time.Second
	// MaxEntries bounds the number of entries kept in the history.
	MaxEntries = 200

	inputCharLimit = 4096
)

// Message types.
type (
	// ResultsMsg carries the conversions of one submitted line.
	ResultsMsg struct {
		Line    string
		Results []orchestration.Result
	}
	// TickMsg triggers a heap sample.
	TickMsg time.Time
	// MemStatsMsg carries a heap sample.
	MemStatsMsg metrics.MemorySnapshot
	// SysStatsMsg carries a system-wide CPU and memory sample.
	SysStatsMsg sysmon.Stats
)

// entry is one submitted line and its outcome.
type entry struct {
	line    string
	results []orchestration.Result
	err     error
}

// Model is the root bubbletea model.
type Model struct {
	header  HeaderModel
	input   textinput.Model
	help    help.Model
	keymap  KeyMap
	entries []entry

	// inputs holds submitted lines for recall; recall indexes into it.
	inputs []string
	recall int
	scroll int

	ctx         context.Context
	formatter   *numfmt.Formatter
	concurrency int
	memory      *metrics.MemoryCollector
	width       int
	height      int
}

// NewModel creates a model converting with f.
func NewModel(ctx context.Context, f *numfmt.Formatter, concurrency int, version string) Model {
	ti := textinput.New()
	ti.Placeholder = "numbers, e.g. 1 -2 3 or 3.14159, or an operation: to_int 2.5"
	ti.Prompt = "› "
	ti.CharLimit = inputCharLimit
	ti.Focus()

	return Model{
		header:      NewHeaderModel(version),
		input:       ti,
		help:        help.New(),
		keymap:      DefaultKeyMap(),
		ctx:         ctx,
		formatter:   f,
		concurrency: concurrency,
		memory:      metrics.NewMemoryCollector(),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ResultsMsg:
		s := orchestration.Summarize(msg.Results)
		m.header.Count(s.Total, s.Failed)
		m.push(entry{line: msg.Line, results: msg.Results})
		return m, nil

	case TickMsg:
		return m, tea.Batch(sampleMemStatsCmd(m.memory), sampleSysStatsCmd(m.ctx), tickCmd())

	case MemStatsMsg:
		m.header.SetMemory(metrics.MemorySnapshot(msg))
		return m, nil

	case SysStatsMsg:
		m.header.SetSystem(sysmon.Stats(msg))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Submit):
		line := strings.TrimSpace(m.input.Value())
		if line == "" {
			return m, nil
		}
		m.input.SetValue("")
		m.inputs = append(m.inputs, line)
		m.recall = len(m.inputs)
		reqs, err := expandLine(line)
		if err != nil {
			m.push(entry{line: line, err: err})
			return m, nil
		}
		return m, convertCmd(m.ctx, m.formatter, m.concurrency, line, reqs)

	case key.Matches(msg, m.keymap.Clear):
		m.entries = nil
		m.scroll = 0
		return m, nil

	case key.Matches(msg, m.keymap.Prev):
		if m.recall > 0 {
			m.recall--
			m.input.SetValue(m.inputs[m.recall])
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Next):
		if m.recall < len(m.inputs)-1 {
			m.recall++
			m.input.SetValue(m.inputs[m.recall])
		} else {
			m.recall = len(m.inputs)
			m.input.SetValue("")
		}
		m.input.CursorEnd()
		return m, nil

	case key.Matches(msg, m.keymap.PageUp):
		m.scroll = min(m.scroll+m.pageSize(), max(len(m.entries)-1, 0))
		return m, nil

	case key.Matches(msg, m.keymap.PageDown):
		m.scroll = max(m.scroll-m.pageSize(), 0)
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) push(e entry) {
	m.entries = append(m.entries, e)
	if len(m.entries) > MaxEntries {
		m.entries = m.entries[len(m.entries)-MaxEntries:]
	}
	m.scroll = 0
}

func (m Model) pageSize() int {
	return max(m.height/4, 1)
}

// View renders the converter.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	header := m.header.View()
	input := inputStyle.Width(max(m.width-2, 0)).Render(m.input.View())
	helpView := m.help.View(m.keymap)

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(input) - lipgloss.Height(helpView)
	body := m.renderEntries(max(bodyHeight, 1))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input, helpView)
}

// renderEntries renders the newest entries, skipping m.scroll entries from
// the end, bottom-aligned in height lines.
func (m Model) renderEntries(height int) string {
	end := len(m.entries) - m.scroll
	var lines []string
	for i := end - 1; i >= 0 && len(lines) < height; i-- {
		lines = append(renderEntry(m.entries[i]), lines...)
	}
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append([]string{""}, lines...)
	}
	return strings.Join(lines, "\n")
}

func renderEntry(e entry) []string {
	lines := []string{historyStyle.Render("› " + e.line)}
	if e.err != nil {
		return append(lines, "  "+errorStyle.Render(e.err.Error()))
	}
	for _, res := range e.results {
		if res.Err != nil {
			lines = append(lines, "  "+opStyle.Render(res.Request.Op.String())+errorStyle.Render(res.Err.Error()))
			continue
		}
		lines = append(lines, "  "+opStyle.Render(res.Request.Op.String())+resultStyle.Render(res.Value()))
	}
	return lines
}

// Run starts the converter and blocks until the user quits or ctx is
// canceled. It returns a process exit code.
func Run(ctx context.Context, f *numfmt.Formatter, concurrency int, version string) int {
	initTUIStyles()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(ctx, f, concurrency, version), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return apperrors.ExitCodeFor(ctx.Err())
		}
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// convertCmd runs reqs through the batch orchestrator off the UI goroutine.
func convertCmd(ctx context.Context, f *numfmt.Formatter, concurrency int, line string, reqs []orchestration.Request) tea.Cmd {
	return func() tea.Msg {
		results := orchestration.ExecuteConversions(ctx, f, reqs, concurrency, orchestration.NullProgressReporter{}, io.Discard)
		return ResultsMsg{Line: line, Results: results}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd(mc *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg(mc.Snapshot())
	}
}

func sampleSysStatsCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg(sysmon.Sample(ctx))
	}
}
