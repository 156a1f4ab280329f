package bot

import (
	"fmt"
	"strings"

	"github.com/mazznoer/colorgrad"
)

// Version is stamped at build time with -ldflags "-X pkdindustries/drafter/internal/bot.Version=..."
var Version = "0.1.0"

// GetBanner returns a colorized ASCII art banner
func GetBanner(version string) string {
	banner := `
     _            __ _
  __| |_ __ __ _ / _| |_ ___ _ __
 / _' | '__/ _' | |_| __/ _ \ '__|
| (_| | | | (_| |  _| ||  __/ |
 \__,_|_|  \__,_|_|  \__\___|_|
 .  .  .  say it, then save it  [v` + version + `]
`
	grad, _ := colorgrad.NewGradient().
		HtmlColors("#f0a011ff", "#fdfdfdff").
		Build()

	lines := strings.Split(banner, "\n")

	maxLen := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}

	colors := grad.Colors(uint(maxLen))
	var coloredBanner strings.Builder

	for _, line := range lines {
		for i, ch := range []rune(line) {
			r, g, b, _ := colors[i].RGBA255()
			fmt.Fprintf(&coloredBanner, "\x1b[38;2;%d;%d;%dm%c", r, g, b, ch)
		}
		coloredBanner.WriteString("\x1b[0m\n")
	}

	return coloredBanner.String()
}
