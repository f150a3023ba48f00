package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/spin/internal/wheel"
)

// ConfettiDuration is how long the strip stays up after a result.
const ConfettiDuration = 5 * time.Second

var confettiGlyphs = []rune("✦•*+✧·")

// confetti draws a strip of neon glyphs that shifts every 100ms and thins
// out as it ages.
func confetti(width int, shownAt, now time.Time) string {
	age := now.Sub(shownAt)
	if shownAt.IsZero() || age < 0 || age >= ConfettiDuration || width <= 0 {
		return ""
	}
	step := int(age / (100 * time.Millisecond))
	density := 1 + int(age*4/ConfettiDuration)

	var b strings.Builder
	for i := 0; i < width; i++ {
		if (i+step)%density != 0 {
			b.WriteByte(' ')
			continue
		}
		g := confettiGlyphs[(i*7+step)%len(confettiGlyphs)]
		c := wheel.Neon[(i+step)%len(wheel.Neon)]
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(string(g)))
	}
	return b.String()
}
