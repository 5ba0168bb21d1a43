// Package theme holds the pterm styles for terminal output and the banner.
package theme

import (
	"strings"

	"github.com/pterm/pterm"
)

type Theme struct {
	Info     *pterm.Style
	Muted    *pterm.Style
	Counts   *pterm.Style
	Route    *pterm.Style
	Upstream *pterm.Style
}

// palette is the set of base colours a theme is built from
type palette struct {
	text, count, route, upstream pterm.Color
}

func (p palette) theme() *Theme {
	return &Theme{
		Info:     pterm.NewStyle(p.text),
		Muted:    pterm.NewStyle(pterm.FgGray),
		Counts:   pterm.NewStyle(p.count),
		Route:    pterm.NewStyle(p.route, pterm.Bold),
		Upstream: pterm.NewStyle(p.upstream),
	}
}

var palettes = map[string]palette{
	"default": {text: pterm.FgGreen, count: pterm.FgLightYellow, route: pterm.FgCyan, upstream: pterm.FgMagenta},
	"dark":    {text: pterm.FgLightGreen, count: pterm.FgYellow, route: pterm.FgLightCyan, upstream: pterm.FgLightMagenta},
	"light":   {text: pterm.FgBlack, count: pterm.FgBlue, route: pterm.FgBlue, upstream: pterm.FgMagenta},
}

func Default() *Theme {
	return palettes["default"].theme()
}

// GetTheme falls back to the default palette for unknown names
func GetTheme(name string) *Theme {
	if p, ok := palettes[strings.ToLower(name)]; ok {
		return p.theme()
	}
	return Default()
}

func ColourSplash(message ...any) string {
	return pterm.LightGreen(message...)
}

func ColourVersion(message ...any) string {
	return pterm.LightYellow(message...)
}

func StyleUrl(message ...any) string {
	return pterm.LightBlue(message...)
}

// Hyperlink wraps text in an OSC 8 link. Terminals without support show text.
func Hyperlink(uri string, text string) string {
	return "\x1b]8;;" + uri + "\x07" + text + "\x1b]8;;\x07\x1b[0m"
}
