package cli

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Makepad-fr/spin/internal/config"
	"github.com/Makepad-fr/spin/internal/model"
	"github.com/Makepad-fr/spin/internal/notify"
	"github.com/Makepad-fr/spin/internal/sound"
	"github.com/Makepad-fr/spin/internal/store"
	"github.com/Makepad-fr/spin/internal/ui"
)

type recPlayer struct{ started, revealed int }

func (p *recPlayer) SpinStarted()    { p.started++ }
func (p *recPlayer) ResultRevealed() { p.revealed++ }

type recNotifier struct{ got []string }

func (n *recNotifier) Notify(msg string) error {
	n.got = append(n.got, msg)
	return nil
}

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := ui.Stdout, ui.Stderr
	ui.Stdout, ui.Stderr = &out, &errOut
	t.Cleanup(func() { ui.Stdout, ui.Stderr = prevOut, prevErr })
	return &out, &errOut
}

func testOptions(t *testing.T, storeName string) Options {
	t.Helper()
	return Options{
		Config: config.Config{
			DataDir: t.TempDir(),
			Store:   storeName,
			Range:   model.Range{Min: 1, Max: 100},
			Mode:    model.ModeNormal,
			Seed:    7,
		},
		SpinDuration: time.Millisecond,
	}
}

func stored(t *testing.T, opt Options) model.History {
	t.Helper()
	kv, err := store.Open(opt.Config.Store, opt.Config.DataDir)
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()
	h, err := store.NewHistory(kv).LoadHistory()
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestRunUsage(t *testing.T) {
	out, errOut := capture(t)
	if code := Run(nil, Options{}); code != 2 {
		t.Errorf("no args: code %d", code)
	}
	if code := Run([]string{"help"}, Options{}); code != 0 {
		t.Errorf("help: code %d", code)
	}
	if !strings.Contains(out.String(), "Subcommands:") {
		t.Errorf("help output = %q", out.String())
	}
	if code := Run([]string{"bogus"}, Options{}); code != 2 {
		t.Errorf("unknown: code %d", code)
	}
	if !strings.Contains(errOut.String(), "unknown subcommand: bogus") {
		t.Errorf("stderr = %q", errOut.String())
	}
	if code := Run([]string{"history", "extra"}, Options{}); code != 2 {
		t.Errorf("history with args: code %d", code)
	}
}

func TestRollQuietRecordsHistory(t *testing.T) {
	out, _ := capture(t)
	opt := testOptions(t, "json")
	p := &recPlayer{}
	opt.Player = p

	code := Run([]string{"roll", "-min", "7", "-max", "8", "-exclude", "8", "-quiet"}, opt)
	if code != 0 {
		t.Fatalf("code %d", code)
	}
	if out.String() != "7\n" {
		t.Errorf("stdout = %q", out.String())
	}
	if p.started != 1 || p.revealed != 1 {
		t.Errorf("player calls = %+v", *p)
	}
	h := stored(t, opt)
	if len(h) != 1 || h[0].Number != 7 || h[0].Mode != model.ModeNormal {
		t.Errorf("history = %+v", h)
	}
	if _, err := time.Parse(time.RFC3339, h[0].Timestamp); err != nil {
		t.Errorf("timestamp %q: %v", h[0].Timestamp, err)
	}
}

func TestRollEliminationPrintsExclusions(t *testing.T) {
	out, _ := capture(t)
	opt := testOptions(t, "json")

	code := Run([]string{"roll", "-min", "1", "-max", "2", "-exclude", "1", "-mode", "elimination"}, opt)
	if code != 0 {
		t.Fatalf("code %d", code)
	}
	if !strings.Contains(out.String(), "✔ 2 (elimination)") {
		t.Errorf("stdout = %q", out.String())
	}
	if !strings.Contains(out.String(), "exclude: 1,2  (0 left)") {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestRollEmptyPool(t *testing.T) {
	_, errOut := capture(t)
	opt := testOptions(t, "json")
	p := &recPlayer{}
	opt.Player = p

	if code := Run([]string{"roll", "-min", "5", "-max", "6", "-exclude", "5,6"}, opt); code != 1 {
		t.Fatalf("code %d", code)
	}
	if !strings.Contains(errOut.String(), "No valid numbers available! Please check your inputs.") {
		t.Errorf("stderr = %q", errOut.String())
	}
	if p.started != 0 || len(stored(t, opt)) != 0 {
		t.Error("empty pool must not spin or record")
	}

	n := &recNotifier{}
	opt.Notifier = n
	if code := Run([]string{"roll", "-min", "5", "-max", "5", "-exclude", "5,6"}, opt); code != 1 {
		t.Fatalf("code %d", code)
	}
	if len(n.got) != 1 {
		t.Errorf("notifier calls = %v", n.got)
	}
}

func TestRollBadFlags(t *testing.T) {
	capture(t)
	opt := testOptions(t, "json")
	for _, args := range [][]string{
		{"roll", "-mode", "sideways"},
		{"roll", "-min", "one"},
		{"roll", "extra"},
	} {
		if code := Run(args, opt); code != 2 {
			t.Errorf("%v: code %d, want 2", args, code)
		}
	}
}

func TestHistoryAndClear(t *testing.T) {
	for _, driver := range []string{"json", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			out, _ := capture(t)
			opt := testOptions(t, driver)

			if code := Run([]string{"history"}, opt); code != 0 {
				t.Fatalf("history code %d", code)
			}
			if !strings.Contains(out.String(), "no spins yet") {
				t.Errorf("empty history = %q", out.String())
			}

			for i := 0; i < 3; i++ {
				if code := Run([]string{"roll", "-min", "40", "-max", "41", "-exclude", "41", "-quiet"}, opt); code != 0 {
					t.Fatalf("roll code %d", code)
				}
			}
			out.Reset()
			if code := Run([]string{"history"}, opt); code != 0 {
				t.Fatalf("history code %d", code)
			}
			if got := strings.Count(out.String(), "40"); got < 3 {
				t.Errorf("history shows %d records:\n%s", got, out.String())
			}

			out.Reset()
			if code := Run([]string{"clear"}, opt); code != 0 {
				t.Fatalf("clear code %d", code)
			}
			if !strings.Contains(out.String(), "history cleared") {
				t.Errorf("clear output = %q", out.String())
			}
			if h := stored(t, opt); len(h) != 0 {
				t.Errorf("history after clear = %+v", h)
			}
		})
	}
}

func TestUnknownStore(t *testing.T) {
	_, errOut := capture(t)
	opt := testOptions(t, "redis")
	if code := Run([]string{"history"}, opt); code != 1 {
		t.Errorf("code %d", code)
	}
	if !strings.Contains(errOut.String(), "unknown store") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestNotifierFor(t *testing.T) {
	if n := notifierFor("play", false); n != nil {
		t.Errorf("play without dialog = %T", n)
	}
	if n := notifierFor("roll", false); n != nil {
		t.Errorf("roll without dialog = %T", n)
	}

	// a failed dialog must surface in the TUI as its banner
	if _, ok := notifierFor("play", true).(notify.Dialog); !ok {
		t.Errorf("play notifier = %T, want notify.Dialog", notifierFor("play", true))
	}

	_, errOut := capture(t)
	fb, ok := notifierFor("roll", true).(notify.Fallback)
	if !ok {
		t.Fatalf("roll notifier = %T, want notify.Fallback", notifierFor("roll", true))
	}
	if err := fb.Secondary.Notify("empty"); err != nil {
		t.Fatal(err)
	}
	if errOut.String() != "empty\n" {
		t.Errorf("roll fallback wrote %q", errOut.String())
	}
}

func TestPlayOptionsUseTUILogger(t *testing.T) {
	opt := testOptions(t, "json")
	opt.Config.Dialog = true
	opt.Logger = slog.New(slog.DiscardHandler)
	var got *slog.Logger
	opt.NewPlayer = func(log *slog.Logger) sound.Player {
		got = log
		return sound.Nop{}
	}

	tuiLog := slog.New(slog.DiscardHandler)
	to := runner{opt}.playOptions(tuiLog)
	if got != tuiLog {
		t.Error("player was not built with the TUI logger")
	}
	if _, ok := to.Notifier.(notify.Dialog); !ok {
		t.Errorf("play notifier = %T", to.Notifier)
	}

	rec := &recNotifier{}
	opt.Notifier = rec
	if to := (runner{opt}).playOptions(tuiLog); to.Notifier != rec {
		t.Errorf("explicit notifier replaced by %T", to.Notifier)
	}
}

func TestRollBuildsPlayerWithRunnerLogger(t *testing.T) {
	capture(t)
	opt := testOptions(t, "json")
	opt.Logger = slog.New(slog.DiscardHandler)
	p := &recPlayer{}
	var got *slog.Logger
	opt.NewPlayer = func(log *slog.Logger) sound.Player {
		got = log
		return p
	}
	if code := Run([]string{"roll", "-quiet"}, opt); code != 0 {
		t.Fatalf("code %d", code)
	}
	if got != opt.Logger || p.started != 1 || p.revealed != 1 {
		t.Errorf("logger match=%v player=%+v", got == opt.Logger, *p)
	}
}
