package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/numfmt/internal/numfmt"
	"github.com/agbru/numfmt/internal/orchestration"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(context.Background(), numfmt.New(), 2, "v1.2.3")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func typeText(m Model, s string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return updated.(Model)
}

// submit presses enter and runs the resulting conversion command, if any.
func submit(t *testing.T, m Model) Model {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd != nil {
		if msg, ok := cmd().(ResultsMsg); ok {
			updated, _ = m.Update(msg)
			m = updated.(Model)
		}
	}
	return m
}

func TestModelConvertsIntegers(t *testing.T) {
	m := submit(t, typeText(newTestModel(t), "1 -2 3"))

	if len(m.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(m.entries))
	}
	view := m.View()
	for _, want := range []string{"› 1 -2 3", "array_to_str_int", "[1, -2, 3]", "1 conversions"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if m.input.Value() != "" {
		t.Errorf("input should be cleared after submit, got %q", m.input.Value())
	}
	if m.header.conversions != 1 {
		t.Errorf("header counted %d conversions, want 1", m.header.conversions)
	}
}

func TestModelConvertsSingleFloat(t *testing.T) {
	m := submit(t, typeText(newTestModel(t), "-3.9"))
	view := m.View()
	for _, want := range []string{"-3.900000", "[-3.900000]", "to_int", "-3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if m.header.conversions != 3 {
		t.Errorf("header counted %d conversions, want 3", m.header.conversions)
	}
}

func TestModelInvalidInput(t *testing.T) {
	updated, cmd := typeText(newTestModel(t), "to_int x").Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := updated.(Model)
	if cmd != nil {
		t.Error("invalid input should not start a conversion")
	}
	if len(m.entries) != 1 || m.entries[0].err == nil {
		t.Fatalf("expected one error entry, got %+v", m.entries)
	}
	if !strings.Contains(m.View(), "is not a number") {
		t.Errorf("view should show the parse error:\n%s", m.View())
	}
}

func TestModelEmptySubmitIgnored(t *testing.T) {
	updated, cmd := newTestModel(t).Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || len(updated.(Model).entries) != 0 {
		t.Error("submitting an empty line should do nothing")
	}
}

func TestModelRecallAndClear(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, typeText(m, "1"))
	m = submit(t, typeText(m, "2.5"))

	press := func(k tea.KeyType) {
		updated, _ := m.Update(tea.KeyMsg{Type: k})
		m = updated.(Model)
	}

	press(tea.KeyUp)
	if got := m.input.Value(); got != "2.5" {
		t.Errorf("first recall = %q, want 2.5", got)
	}
	press(tea.KeyUp)
	press(tea.KeyUp)
	if got := m.input.Value(); got != "1" {
		t.Errorf("recall past the start = %q, want 1", got)
	}
	press(tea.KeyDown)
	press(tea.KeyDown)
	if got := m.input.Value(); got != "" {
		t.Errorf("recall past the end = %q, want empty", got)
	}

	press(tea.KeyCtrlL)
	if len(m.entries) != 0 {
		t.Errorf("entries after clear = %d", len(m.entries))
	}
}

func TestModelQuit(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := newTestModel(t).Update(tea.KeyMsg{Type: k})
		if cmd == nil {
			t.Fatalf("%v: expected a quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v: expected tea.QuitMsg", k)
		}
	}
}

func TestModelHelpToggle(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyF1})
	m = updated.(Model)
	if !m.help.ShowAll {
		t.Error("F1 should expand the help")
	}
	if !strings.Contains(m.View(), "scroll up") {
		t.Error("expanded help should list the scroll bindings")
	}
}

func TestModelHistoryBounded(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < MaxEntries+10; i++ {
		m.push(entry{line: "x", err: errors.New("e")})
	}
	if len(m.entries) != MaxEntries {
		t.Errorf("entries = %d, want %d", len(m.entries), MaxEntries)
	}
}

func TestModelScroll(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 20; i++ {
		m.push(entry{line: "x"})
	}
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	m = updated.(Model)
	if m.scroll == 0 {
		t.Error("pgup should scroll back")
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	if updated.(Model).scroll != 0 {
		t.Error("pgdown should scroll forward to the newest entry")
	}
}

func TestModelMemStats(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(MemStatsMsg{HeapAlloc: 2 << 20})
	if !strings.Contains(updated.(Model).View(), "heap 2.0 MiB") {
		t.Error("header should show the heap sample")
	}
}

func TestModelSysStats(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SysStatsMsg{CPUPercent: 12.4, MemPercent: 48.6})
	if !strings.Contains(updated.(Model).View(), "cpu 12% mem 49%") {
		t.Error("header should show the system sample")
	}
}

func TestViewBeforeResize(t *testing.T) {
	m := NewModel(context.Background(), numfmt.New(), 0, "dev")
	if m.View() != "Initializing..." {
		t.Errorf("View before resize = %q", m.View())
	}
}

func TestExpandLine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line string
		ops  []numfmt.Op
	}{
		{"42", []numfmt.Op{numfmt.OpToStrInt, numfmt.OpArrayToStrInt, numfmt.OpToFloat}},
		{"1, 2, 3", []numfmt.Op{numfmt.OpArrayToStrInt}},
		{"2.5", []numfmt.Op{numfmt.OpToStrFloat, numfmt.OpArrayToStrFloat, numfmt.OpToInt}},
		{"1 2.5", []numfmt.Op{numfmt.OpArrayToStrFloat}},
		{"to_int 9.99", []numfmt.Op{numfmt.OpToInt}},
		{"TO_STR 7", []numfmt.Op{numfmt.OpToStrInt}},
		{"array-to-str-int", []numfmt.Op{numfmt.OpArrayToStrInt}},
		{"   ", nil},
	}
	for _, tt := range tests {
		reqs, err := expandLine(tt.line)
		if err != nil {
			t.Errorf("expandLine(%q): %v", tt.line, err)
			continue
		}
		var got []numfmt.Op
		for _, r := range reqs {
			got = append(got, r.Op)
		}
		if len(got) != len(tt.ops) {
			t.Errorf("expandLine(%q) ops = %v, want %v", tt.line, got, tt.ops)
			continue
		}
		for i := range got {
			if got[i] != tt.ops[i] {
				t.Errorf("expandLine(%q) ops = %v, want %v", tt.line, got, tt.ops)
				break
			}
		}
	}

	if _, err := expandLine("1 abc"); err == nil {
		t.Error("expandLine should reject non-numeric values")
	}
}

var _ tea.Model = Model{}

func TestResultsMsgCountsFailures(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(ResultsMsg{Line: "x", Results: []orchestration.Result{{Err: errors.New("boom")}, {}}})
	m = updated.(Model)
	if m.header.conversions != 2 || m.header.failures != 1 {
		t.Errorf("counters = %d/%d, want 2/1", m.header.conversions, m.header.failures)
	}
}
