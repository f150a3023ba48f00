package selector

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/Makepad-fr/spin/internal/model"
)

// State of the spin cycle.
type State int

const (
	Idle State = iota
	Spinning
)

func (s State) String() string {
	if s == Spinning {
		return "spinning"
	}
	return "idle"
}

// HistoryStore persists the history log.
type HistoryStore interface {
	LoadHistory() (model.History, error)
	SaveHistory(model.History) error
}

// Command is a user action handled by Session.Dispatch.
type Command interface{ command() }

// RequestSpin starts a spin when idle.
type RequestSpin struct{}

// Frame advances an in-flight spin to Now. A zero Now means the session clock.
type Frame struct{ Now time.Time }

// SetMode switches between normal and elimination.
type SetMode struct{ Mode model.Mode }

// SetRange replaces the bounds; they are normalized first.
type SetRange struct{ Min, Max int }

// SetExclusions replaces the exclusion set from free-form text.
type SetExclusions struct{ Text string }

// Reset restores the default range, clears exclusions and history.
type Reset struct{}

func (RequestSpin) command()   {}
func (Frame) command()         {}
func (SetMode) command()       {}
func (SetRange) command()      {}
func (SetExclusions) command() {}
func (Reset) command()         {}

// EventKind says what a command did.
type EventKind int

const (
	EventIgnored EventKind = iota
	EventSpinStarted
	EventSpinProgress
	EventSpinFinished
	EventModeChanged
	EventRangeChanged
	EventExclusionsChanged
	EventReset
)

// Event is the result of dispatching a command.
type Event struct {
	Kind      EventKind
	Selection Selection        // set for EventSpinStarted and EventSpinFinished
	Record    model.SpinRecord // set for EventSpinFinished
}

// Options configure a Session. Zero values get sensible defaults.
type Options struct {
	RNG        RNG
	Now        func() time.Time
	Store      HistoryStore
	Logger     *slog.Logger
	Duration   time.Duration
	Range      *model.Range
	Exclusions []int
	Mode       model.Mode
}

// Session is the whole state of one number picker.
// It is not safe for concurrent use; one event loop owns it.
type Session struct {
	rng      RNG
	now      func() time.Time
	store    HistoryStore
	log      *slog.Logger
	duration time.Duration

	bounds     model.Range
	exclusions []int
	mode       model.Mode
	history    model.History

	rotation float64
	state    State
	anim     Animation
	pending  Selection

	result    int
	hasResult bool
}

// NewSession builds a session and restores history from the store.
func NewSession(opt Options) *Session {
	s := &Session{
		rng:      opt.RNG,
		now:      opt.Now,
		store:    opt.Store,
		log:      opt.Logger,
		duration: opt.Duration,
		bounds:   DefaultRange(),
		mode:     opt.Mode,
	}
	if s.rng == nil {
		s.rng = NewRNG(0)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.duration <= 0 {
		s.duration = SpinDuration
	}
	if s.mode == "" {
		s.mode = model.ModeNormal
	}
	if opt.Range != nil {
		s.bounds = NormalizeRange(opt.Range.Min, opt.Range.Max)
	}
	for _, n := range opt.Exclusions {
		if !slices.Contains(s.exclusions, n) {
			s.exclusions = append(s.exclusions, n)
		}
	}
	if s.store != nil {
		h, err := s.store.LoadHistory()
		if err != nil {
			s.log.Warn("load history", "error", err)
		}
		s.history = h.Trim()
	}
	return s
}

// Dispatch is the single state-transition function.
func (s *Session) Dispatch(cmd Command) (Event, error) {
	switch c := cmd.(type) {
	case RequestSpin:
		return s.requestSpin()
	case Frame:
		now := c.Now
		if now.IsZero() {
			now = s.now()
		}
		return s.frame(now), nil
	case SetMode:
		if c.Mode != model.ModeNormal && c.Mode != model.ModeElimination {
			return Event{Kind: EventIgnored}, nil
		}
		s.mode = c.Mode
		s.log.Debug("mode changed", "mode", c.Mode)
		return Event{Kind: EventModeChanged}, nil
	case SetRange:
		s.bounds = NormalizeRange(c.Min, c.Max)
		return Event{Kind: EventRangeChanged}, nil
	case SetExclusions:
		s.exclusions = ParseExclusions(c.Text)
		return Event{Kind: EventExclusionsChanged}, nil
	case Reset:
		s.bounds = DefaultRange()
		s.exclusions = nil
		s.history = nil
		s.hasResult = false
		s.save()
		s.log.Debug("session reset")
		return Event{Kind: EventReset}, nil
	}
	return Event{Kind: EventIgnored}, nil
}

func (s *Session) requestSpin() (Event, error) {
	if s.state == Spinning {
		return Event{Kind: EventIgnored}, nil
	}
	sel, err := Select(s.Pool(), s.rng)
	if err != nil {
		s.log.Debug("spin rejected", "error", err)
		return Event{Kind: EventIgnored}, err
	}
	s.state = Spinning
	s.hasResult = false
	s.pending = sel
	s.anim = Animation{
		From:     s.rotation,
		To:       TargetRotation(s.rotation, sel.Position, sel.PoolSize),
		Start:    s.now(),
		Duration: s.duration,
	}
	s.log.Debug("spin started", "pool", sel.PoolSize, "target", s.anim.To)
	return Event{Kind: EventSpinStarted, Selection: sel}, nil
}

func (s *Session) frame(now time.Time) Event {
	if s.state != Spinning {
		return Event{Kind: EventIgnored}
	}
	s.rotation = s.anim.Rotation(now)
	if !s.anim.Done(now) {
		return Event{Kind: EventSpinProgress, Selection: s.pending}
	}

	s.state = Idle
	s.result = s.pending.Number
	s.hasResult = true
	rec := model.SpinRecord{
		Number:    s.pending.Number,
		Timestamp: now.Format(time.RFC3339),
		Mode:      s.mode,
	}
	s.history = s.history.Push(rec)
	s.save()
	if s.mode == model.ModeElimination && !slices.Contains(s.exclusions, rec.Number) {
		s.exclusions = append(s.exclusions, rec.Number)
	}
	s.log.Debug("spin finished", "number", rec.Number, "mode", rec.Mode)
	return Event{Kind: EventSpinFinished, Selection: s.pending, Record: rec}
}

func (s *Session) save() {
	if s.store == nil {
		return
	}
	if err := s.store.SaveHistory(s.history); err != nil {
		s.log.Error("save history", "error", err)
	}
}

// Drive feeds ticks into the session until the in-flight spin finishes.
// onFrame, if set, runs after every frame. Cancelling ctx only stops
// waiting; the spin itself is not undone.
func (s *Session) Drive(ctx context.Context, ticks <-chan time.Time, onFrame func(Event)) (Event, error) {
	for s.state == Spinning {
		select {
		case <-ctx.Done():
			return Event{Kind: EventIgnored}, ctx.Err()
		case t := <-ticks:
			ev := s.frame(t)
			if onFrame != nil {
				onFrame(ev)
			}
			if ev.Kind == EventSpinFinished {
				return ev, nil
			}
		}
	}
	return Event{Kind: EventIgnored}, nil
}

// Pool is the current candidate pool.
func (s *Session) Pool() Pool { return NewPool(s.bounds, s.exclusions) }

func (s *Session) Range() model.Range { return s.bounds }
func (s *Session) Mode() model.Mode   { return s.mode }
func (s *Session) State() State       { return s.state }
func (s *Session) Spinning() bool     { return s.state == Spinning }

// Rotation is the accumulated wheel angle in degrees.
func (s *Session) Rotation() float64 { return s.rotation }

// Exclusions returns a copy of the exclusion set.
func (s *Session) Exclusions() []int { return slices.Clone(s.exclusions) }

// ExclusionText is the exclusion set as an input field would show it.
func (s *Session) ExclusionText() string { return FormatExclusions(s.exclusions) }

// History returns a copy of the history, newest first.
func (s *Session) History() model.History { return slices.Clone(s.history) }

// Result is the last revealed number. It is cleared when a spin starts.
func (s *Session) Result() (int, bool) { return s.result, s.hasResult }

// Progress of the current spin in [0, 1]; 0 when idle.
func (s *Session) Progress(now time.Time) float64 {
	if s.state != Spinning {
		return 0
	}
	return s.anim.Progress(now)
}
