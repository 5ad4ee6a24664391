// Package ui holds the color themes shared by the CLI, REPL and TUI. ANSI
// themes serve line-oriented output; TUITheme carries the lipgloss palette
// of the interactive converter. Colors are disabled by --no-color or the
// NO_COLOR environment variable.
package ui
