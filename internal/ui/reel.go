package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/spin/internal/wheel"
)

var (
	slotStyle    = lipgloss.NewStyle().Padding(0, 1)
	pointerStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
)

// Reel renders a window of wheel slots on one line with the pointer marked
// above the centre slot. cellWidth is the width reserved for each number.
func Reel(slots []wheel.Slot, cellWidth int) string {
	if len(slots) == 0 {
		return "(no numbers)"
	}
	var top, row strings.Builder
	for _, s := range slots {
		label := fmt.Sprintf("%*d", cellWidth, s.Number)
		st := slotStyle
		if s.Pointer {
			st = pointerStyle
		}
		cell := st.Foreground(lipgloss.Color(wheel.Hex(s.Color))).Render(label)
		w := lipgloss.Width(cell)
		mark := strings.Repeat(" ", w)
		if s.Pointer {
			mark = strings.Repeat(" ", w/2) + Current().Pointer + strings.Repeat(" ", w-w/2-1)
		}
		top.WriteString(mark)
		row.WriteString(cell)
	}
	return top.String() + "\n" + row.String()
}

// CellWidth is the widest number in the pool, for stable reel layout.
func CellWidth(r wheel.Slices) int {
	if r.Len() == 0 {
		return 1
	}
	a := len(fmt.Sprint(r.At(0)))
	b := len(fmt.Sprint(r.At(r.Len() - 1)))
	return max(a, b)
}
