package ui

// The Color* accessors return the escape code of the active theme for one
// role, or "" when colors are disabled.

func ColorReset() string     { return GetCurrentTheme().Reset }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }
func ColorBlue() string      { return GetCurrentTheme().Primary }
func ColorGreen() string     { return GetCurrentTheme().Success }
func ColorRed() string       { return GetCurrentTheme().Error }
func ColorYellow() string    { return GetCurrentTheme().Warning }
func ColorMagenta() string   { return GetCurrentTheme().Info }
func ColorCyan() string      { return GetCurrentTheme().Secondary }

// Colorize wraps s in the given escape code, resetting afterwards. It
// returns s unchanged when code is empty.
func Colorize(code, s string) string {
	if code == "" {
		return s
	}
	return code + s + ColorReset()
}
