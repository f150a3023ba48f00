package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Makepad-fr/spin/internal/model"
)

// ModeSymbol is the theme glyph for a mode.
func ModeSymbol(m model.Mode) string {
	if m == model.ModeElimination {
		return Current().SymElimination
	}
	return Current().SymNormal
}

// When renders a record timestamp as clock time plus a relative age. Values
// that are not RFC 3339 are shown as stored.
func When(ts string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return fmt.Sprintf("%s · %s", t.Local().Format("15:04:05"), humanize.RelTime(t, now, "ago", "from now"))
}

// HistoryLines renders one line per record, newest first.
func HistoryLines(h model.History, now time.Time) []string {
	t := Current()
	lines := make([]string, 0, len(h))
	for i, r := range h {
		lines = append(lines, fmt.Sprintf("%2d. %s %s  %s",
			i+1,
			ModeSymbol(r.Mode),
			C(t.Accent, fmt.Sprintf("%6d", r.Number)),
			C(t.Muted, fmt.Sprintf("%s (%s)", When(r.Timestamp, now), r.Mode)),
		))
	}
	return lines
}
