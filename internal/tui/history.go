package tui

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/spin/internal/model"
	"github.com/Makepad-fr/spin/internal/ui"
)

// historyItem adapts a SpinRecord to bubbles/list.Item
type historyItem struct {
	rec model.SpinRecord
}

func (i historyItem) FilterValue() string { return strconv.Itoa(i.rec.Number) }

// one line per record
type historyDelegate struct {
	now func() time.Time
}

func (d historyDelegate) Height() int                             { return 1 }
func (d historyDelegate) Spacing() int                            { return 0 }
func (d historyDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d historyDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(historyItem)
	if !ok {
		return
	}
	sym := mutedStyle.Render(ui.Current().SymNormal)
	if it.rec.Mode == model.ModeElimination {
		sym = pendingStyle.Render(ui.Current().SymElimination)
	}
	num := accentStyle.Render(fmt.Sprintf("%6d", it.rec.Number))
	when := mutedStyle.Render(ui.When(it.rec.Timestamp, d.now()))

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
	}
	fmt.Fprintf(w, "%s%s %s  %s", prefix, sym, num, when)
}

func newHistoryList(h model.History, now func() time.Time) list.Model {
	l := list.New(historyItems(h), historyDelegate{now: now}, 40, model.HistoryLimit+2)
	l.Title = "History"
	l.Styles.Title = titleStyle
	l.Styles.NoItems = mutedStyle.PaddingLeft(2)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("spin", "spins")
	l.DisableQuitKeybindings()
	return l
}

func historyItems(h model.History) []list.Item {
	out := make([]list.Item, 0, len(h))
	for _, r := range h {
		out = append(out, historyItem{rec: r})
	}
	return out
}
