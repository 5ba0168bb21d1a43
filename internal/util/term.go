package util

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// colourOverrides are checked in order; the first one set decides.
// See https://no-color.org and https://force-color.org
var colourOverrides = []struct {
	name   string
	enable func(string) bool
}{
	{"NO_COLOR", func(string) bool { return false }},
	{"FORCE_COLOR", func(v string) bool { return v != "0" }},
	{"HSPROXY_FORCE_COLORS", func(v string) bool { return strings.EqualFold(v, "true") }},
}

func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ShouldUseColors reports whether stdout output should carry ANSI styling
func ShouldUseColors() bool {
	for _, o := range colourOverrides {
		if v := os.Getenv(o.name); v != "" {
			return o.enable(v)
		}
	}
	return IsTerminal()
}
