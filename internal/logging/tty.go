package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Any writer exposing Fd, such as
// *os.File, is checked; everything else is not a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI colors should be written to w.
// NO_COLOR (https://no-color.org) and TERM=dumb disable color; CANON_COLOR=always
// forces it for pipes such as `canon convert ... | less -R`.
func SupportsColor(w io.Writer) bool {
	return colorPolicy(os.Getenv, IsTTY(w))
}

func colorPolicy(getenv func(string) string, isTTY bool) bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor || getenv("TERM") == "dumb" {
		return false
	}
	if getenv("CANON_COLOR") == "always" {
		return true
	}
	return isTTY
}
