// Package version carries build metadata, set through -ldflags at release.
package version

import (
	"fmt"
	"log"
	"runtime"
	"strings"

	"github.com/fraudknight/hsproxy/theme"
)

var (
	Name        = "hsproxy"
	Description = "Authenticated forwarding layer for the Haystack case API"
	Version     = "v0.0.1"
	Commit      = "none"
	Date        = "nowish"
	User        = "local"
	Runtime     = runtime.Version()
)

const (
	HomeText  = "github.com/fraudknight/hsproxy"
	HomeURI   = "https://" + HomeText
	LatestURI = HomeURI + "/releases/latest"

	bannerWidth = 44
)

var bannerArt = []string{
	`  _               ___                  `,
	` | |_  ___ _ __  | _ \_ _ _____ ___  _ `,
	` | ' \(_-<| '_ \ |  _/ '_/ _ \ \ / || |`,
	` |_||_/__/| .__/ |_| |_| \___/_\_\\_, |`,
	`          |_|                     |__/ `,
}

// Banner renders the startup box; extended adds the build details below it
func Banner(extended bool) string {
	var b strings.Builder
	edge := strings.Repeat("─", bannerWidth+2)

	b.WriteString(theme.ColourSplash("╔" + edge + "╗\n"))
	for _, line := range bannerArt {
		b.WriteString(theme.ColourSplash(fmt.Sprintf("│ %-*s │\n", bannerWidth, line)))
	}

	// hyperlink escapes have no width, so pad on the visible text
	pad := max(1, bannerWidth-len(HomeText)-len(Version))
	b.WriteString(theme.ColourSplash("│ "))
	b.WriteString(theme.StyleUrl(theme.Hyperlink(HomeURI, HomeText)))
	b.WriteString(" ")
	b.WriteString(theme.ColourVersion(theme.Hyperlink(LatestURI, Version)))
	b.WriteString(theme.ColourSplash(strings.Repeat(" ", pad) + "│\n"))
	b.WriteString(theme.ColourSplash("╚" + edge + "╝"))

	if extended {
		fmt.Fprintf(&b, "\n Commit: %s\n  Built: %s\n  Using: %s\n     Go: %s\n", Commit, Date, User, Runtime)
	}
	return b.String()
}

func PrintVersionInfo(extended bool, vlog *log.Logger) {
	vlog.Println(Banner(extended))
}
