package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/cubetwist/internal/scene"
)

// halfBlock shows the top pixel as foreground and the bottom pixel as
// background of one cell.
const halfBlock = "▀"

func hexColor(c scene.RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// renderFramebuffer turns a framebuffer into terminal rows of half blocks,
// two pixel rows per line. Runs of identical cells share one style.
func renderFramebuffer(fb *scene.Framebuffer) string {
	var b strings.Builder
	for y := 0; y+1 < fb.Height; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		x := 0
		for x < fb.Width {
			top, bottom := fb.At(x, y), fb.At(x, y+1)
			run := 1
			for x+run < fb.Width && fb.At(x+run, y) == top && fb.At(x+run, y+1) == bottom {
				run++
			}
			style := lipgloss.NewStyle().
				Foreground(hexColor(top)).
				Background(hexColor(bottom))
			b.WriteString(style.Render(strings.Repeat(halfBlock, run)))
			x += run
		}
	}
	return b.String()
}
