package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// colorEnabled reports whether stdout is an interactive terminal that
// should receive ANSI color codes.
func colorEnabled() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorize(code, s string) string {
	if !colorEnabled() {
		return s
	}
	return fmt.Sprintf("\x1b[%sm%s\x1b[0m", code, s)
}

func green(s string) string  { return colorize("32", s) }
func red(s string) string    { return colorize("31", s) }
func yellow(s string) string { return colorize("33", s) }
func bold(s string) string   { return colorize("1", s) }
