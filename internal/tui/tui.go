// Package tui is the interactive terminal picker built on Bubble Tea.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/spin/internal/model"
	"github.com/Makepad-fr/spin/internal/notify"
	"github.com/Makepad-fr/spin/internal/selector"
	"github.com/Makepad-fr/spin/internal/sound"
	"github.com/Makepad-fr/spin/internal/ui"
	"github.com/Makepad-fr/spin/internal/wheel"
)

const frameInterval = time.Second / 60

// input fields
const (
	fieldMin = iota
	fieldMax
	fieldExclude
	fieldCount
)

// frameMsg carries the wall-clock time of an animation frame.
type frameMsg time.Time

// noticeDoneMsg reports that an external notifier returned.
type noticeDoneMsg struct {
	message string
	err     error
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Options wire the collaborators around the session.
type Options struct {
	Player sound.Player
	// Notifier, when set, shows notices outside the terminal (a desktop
	// dialog). Otherwise notices are an inline banner.
	Notifier notify.Notifier
	Now      func() time.Time
}

// Model is the Bubble Tea model over one selector.Session.
type Model struct {
	sess     *selector.Session
	player   sound.Player
	notifier notify.Notifier
	now      func() time.Time

	keys    keyMap
	help    help.Model
	inputs  [fieldCount]textinput.Model
	focus   int // -1 when not editing
	history list.Model
	bar     progress.Model

	ticking    bool
	lastFrame  time.Time
	revealedAt time.Time
	notice     string

	width, height int
}

// New builds the model. The session is owned by the model from here on.
func New(sess *selector.Session, opt Options) Model {
	if opt.Player == nil {
		opt.Player = sound.Nop{}
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	m := Model{
		sess:     sess,
		player:   opt.Player,
		notifier: opt.Notifier,
		now:      opt.Now,
		keys:     defaultKeys(),
		help:     help.New(),
		focus:    -1,
		bar:      progress.New(progress.WithGradient("#007bff", "#e83e8c"), progress.WithoutPercentage()),
		width:    80,
		height:   24,
	}
	m.help.Styles.ShortKey = helpStyle
	m.help.Styles.ShortDesc = helpStyle
	m.history = newHistoryList(sess.History(), opt.Now)

	prompts := [fieldCount]string{"min ", "max ", "exclude "}
	placeholders := [fieldCount]string{"1", "100", "e.g. 3,7,12"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = prompts[i]
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 12
		ti.Width = 8
		m.inputs[i] = ti
	}
	m.inputs[fieldExclude].CharLimit = 400
	m.inputs[fieldExclude].Width = 30
	m.syncInputs()
	m.resize()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Session exposes the wrapped session.
func (m Model) Session() *selector.Session { return m.sess }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		return m.onFrame(time.Time(msg))

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case noticeDoneMsg:
		if msg.err != nil {
			m.notice = msg.message
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, forceQuit) {
			return m, tea.Quit
		}
		// blocking notice: any key dismisses, nothing else happens
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}
		if m.focus >= 0 {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Spin):
		return m.spin()
	case key.Matches(msg, m.keys.Normal):
		m.sess.Dispatch(selector.SetMode{Mode: model.ModeNormal})
		return m, nil
	case key.Matches(msg, m.keys.Elimination):
		m.sess.Dispatch(selector.SetMode{Mode: model.ModeElimination})
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.sess.Dispatch(selector.Reset{})
		m.revealedAt = time.Time{}
		m.syncInputs()
		m.syncHistory()
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		cmd := m.focusField(fieldMin)
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, nextField):
		cmd := m.focusField((m.focus + 1) % fieldCount)
		return m, cmd
	case key.Matches(msg, prevField):
		cmd := m.focusField((m.focus + fieldCount - 1) % fieldCount)
		return m, cmd
	case key.Matches(msg, apply):
		m.applyInputs()
		m.blur()
		return m, nil
	case key.Matches(msg, leave):
		m.blur()
		m.syncInputs()
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) spin() (tea.Model, tea.Cmd) {
	ev, err := m.sess.Dispatch(selector.RequestSpin{})
	if err != nil {
		if errors.Is(err, selector.ErrNoCandidates) {
			cmd := m.alert(selector.NoCandidatesMessage)
			return m, cmd
		}
		cmd := m.alert(err.Error())
		return m, cmd
	}
	if ev.Kind != selector.EventSpinStarted {
		return m, nil
	}
	m.player.SpinStarted()
	m.revealedAt = time.Time{}
	m.lastFrame = m.now()
	cmd := m.startTicking()
	return m, cmd
}

func (m Model) onFrame(t time.Time) (tea.Model, tea.Cmd) {
	m.lastFrame = t
	ev, _ := m.sess.Dispatch(selector.Frame{Now: t})
	if ev.Kind == selector.EventSpinFinished {
		m.player.ResultRevealed()
		m.revealedAt = t
		m.syncHistory()
		if m.sess.Mode() == model.ModeElimination && m.focus != fieldExclude {
			m.inputs[fieldExclude].SetValue(m.sess.ExclusionText())
		}
	}
	if m.sess.Spinning() || m.confettiActive(t) {
		return m, tick()
	}
	m.ticking = false
	return m, nil
}

// startTicking begins the frame loop unless one is already running.
func (m *Model) startTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tick()
}

func (m Model) confettiActive(t time.Time) bool {
	return !m.revealedAt.IsZero() && t.Sub(m.revealedAt) < ConfettiDuration
}

// alert shows message through the notifier, or as an inline banner that
// must be dismissed with a key.
func (m *Model) alert(message string) tea.Cmd {
	if m.notifier == nil {
		m.notice = message
		return nil
	}
	n := m.notifier
	return func() tea.Msg {
		return noticeDoneMsg{message: message, err: n.Notify(message)}
	}
}

func (m *Model) focusField(i int) tea.Cmd {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focus = i
	m.inputs[i].CursorEnd()
	return m.inputs[i].Focus()
}

func (m *Model) blur() {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focus = -1
}

// applyInputs pushes the fields into the session. A bound that does not
// parse keeps its current value.
func (m *Model) applyInputs() {
	r := m.sess.Range()
	lo, hi := r.Min, r.Max
	if n, ok := selector.ParseBound(m.inputs[fieldMin].Value()); ok {
		lo = n
	}
	if n, ok := selector.ParseBound(m.inputs[fieldMax].Value()); ok {
		hi = n
	}
	m.sess.Dispatch(selector.SetRange{Min: lo, Max: hi})
	m.sess.Dispatch(selector.SetExclusions{Text: m.inputs[fieldExclude].Value()})
	m.syncInputs()
}

// syncInputs shows the session's normalized values in the fields.
func (m *Model) syncInputs() {
	r := m.sess.Range()
	m.inputs[fieldMin].SetValue(strconv.Itoa(r.Min))
	m.inputs[fieldMax].SetValue(strconv.Itoa(r.Max))
	m.inputs[fieldExclude].SetValue(m.sess.ExclusionText())
}

func (m *Model) syncHistory() {
	m.history.SetItems(historyItems(m.sess.History()))
	m.history.Select(0)
}

func (m *Model) resize() {
	w := max(m.width-4, 20)
	m.bar.Width = min(w, 60)
	m.history.SetSize(w, model.HistoryLimit+2)
	m.help.Width = w
}

// reelRadius fits as many neighbours as the width allows.
func (m Model) reelRadius(cell int) int {
	slots := max(m.width-4, 10) / (cell + 2)
	return max(1, min(7, (slots-1)/2))
}

func (m Model) View() string {
	now := m.lastFrame
	if now.IsZero() {
		now = m.now()
	}
	if m.notice != "" {
		return m.noticeView()
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	pool := m.sess.Pool()
	cell := ui.CellWidth(pool)
	slots := wheel.Window(pool, m.sess.Rotation(), wheel.PointerAngle, m.reelRadius(cell))
	b.WriteString(ui.Reel(slots, cell))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.sess.Progress(now)))
	b.WriteString("\n\n")

	b.WriteString(resultStyle.Render(m.resultText()))
	if c := confetti(max(m.width-6, 10), m.revealedAt, now); c != "" {
		b.WriteString("\n" + c)
	}
	b.WriteString("\n\n")

	b.WriteString(m.inputs[fieldMin].View() + "  " + m.inputs[fieldMax].View())
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldExclude].View())
	b.WriteString("\n\n")

	b.WriteString(m.history.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return panelString(b.String())
}

// resultText is "--" while spinning or before the first result.
func (m Model) resultText() string {
	if n, ok := m.sess.Result(); ok && !m.sess.Spinning() {
		return strconv.Itoa(n)
	}
	return "--"
}

func (m Model) header() string {
	mode := mutedStyle.Render(ui.Current().SymNormal + " normal")
	if m.sess.Mode() == model.ModeElimination {
		mode = pendingStyle.Render(ui.Current().SymElimination + " elimination")
	}
	r := m.sess.Range()
	pool := m.sess.Pool()
	state := successStyle.Render("ready")
	if m.sess.Spinning() {
		state = accentStyle.Render("spinning")
	}
	return fmt.Sprintf("%s   %s   %s %d..%d  %s %d   %s",
		titleStyle.Render("Spin"),
		mode,
		mutedStyle.Render("range"), r.Min, r.Max,
		mutedStyle.Render("left"), pool.Len(),
		state,
	)
}

func (m Model) noticeView() string {
	body := errorStyle.Render(m.notice) + "\n\n" + helpStyle.Render("press any key to continue")
	box := bannerStyle.Render(body)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
