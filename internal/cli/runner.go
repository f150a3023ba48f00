package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/Makepad-fr/spin/internal/config"
	"github.com/Makepad-fr/spin/internal/model"
	"github.com/Makepad-fr/spin/internal/notify"
	"github.com/Makepad-fr/spin/internal/selector"
	"github.com/Makepad-fr/spin/internal/sound"
	"github.com/Makepad-fr/spin/internal/store"
	"github.com/Makepad-fr/spin/internal/tui"
	"github.com/Makepad-fr/spin/internal/ui"
	"github.com/Makepad-fr/spin/internal/wheel"
)

const frameInterval = time.Second / 60

// Options carry what the root command resolved before dispatch.
type Options struct {
	Config config.Config
	Logger *slog.Logger
	// NewPlayer builds the audio player around the logger of the running
	// subcommand. Player, when set, is used as is.
	NewPlayer func(log *slog.Logger) sound.Player
	Player    sound.Player
	// Notifier replaces the one picked from Config.Dialog.
	Notifier notify.Notifier
	Now      func() time.Time
	// SpinDuration overrides the animation length (tests).
	SpinDuration time.Duration
}

type runner struct {
	Options
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	r := runner{opt}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "play":
		if len(a) != 0 {
			ui.Fail("usage: spin play")
			return 2
		}
		return r.doPlay()

	case "roll":
		return r.doRoll(a)

	case "history":
		if len(a) != 0 {
			ui.Fail("usage: spin history")
			return 2
		}
		return r.doHistory()

	case "clear":
		if len(a) != 0 {
			ui.Fail("usage: spin clear")
			return 2
		}
		return r.doClear()
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Fprintf(ui.Stdout, `spin - a random number wheel

Usage:
  spin [root flags] <subcommand> [flags]

Subcommands:
  play               Open the interactive wheel
  roll               Spin once and print the result
  history            Show the last %d results
  clear              Forget the history
  help               Show this help

Roll flags:
  -min N             Lowest number (default 1)
  -max N             Highest number (default 100)
  -exclude LIST      Comma separated numbers to skip
  -mode MODE         normal or elimination
  -quiet             Print only the result

Root flags:
  -config FILE       YAML config (default <data-dir>/config.yaml)
  -data-dir DIR      Where history is kept (default ~/.spin)
  -store NAME        json or sqlite
  -sound=false       Silence the tones
  -dialog            Show notices in a desktop dialog
  -log-level LEVEL   debug, info, warn or error
  -log-file FILE     Write logs to a file
  -seed N            Fixed random seed (0 = random)

Examples:
  spin play
  spin roll -min 1 -max 6
  spin roll -max 30 -exclude 4,13 -mode elimination
  spin -store sqlite history
`, model.HistoryLimit)
}

// notifierFor picks how a subcommand raises blocking notices. nil means
// print with ui.Fail. play gets the bare dialog so a failure reaches the
// TUI, which then shows its own banner instead of writing under it.
func notifierFor(cmd string, dialog bool) notify.Notifier {
	if !dialog {
		return nil
	}
	d := notify.Dialog{Title: "Spin"}
	if cmd == "play" {
		return d
	}
	return notify.Fallback{Primary: d, Secondary: notify.Writer{W: ui.Stderr}}
}

// -------------- subcommand impls ----------------

func (r runner) notifier(cmd string) notify.Notifier {
	if r.Notifier != nil {
		return r.Notifier
	}
	return notifierFor(cmd, r.Config.Dialog)
}

func (r runner) player(log *slog.Logger) sound.Player {
	switch {
	case r.Player != nil:
		return r.Player
	case r.NewPlayer != nil:
		return r.NewPlayer(log)
	}
	return sound.Nop{}
}

// playOptions wires the TUI collaborators to log, the TUI's own logger.
func (r runner) playOptions(log *slog.Logger) tui.Options {
	return tui.Options{Player: r.player(log), Notifier: r.notifier("play"), Now: r.Now}
}

func (r runner) openHistory() (*store.History, func(), error) {
	kv, err := store.Open(r.Config.Store, r.Config.DataDir)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := kv.Close(); err != nil {
			r.Logger.Warn("close store", "error", err)
		}
	}
	return store.NewHistory(kv), closeFn, nil
}

func (r runner) session(log *slog.Logger, h selector.HistoryStore, rng model.Range, exclude string, mode model.Mode) *selector.Session {
	return selector.NewSession(selector.Options{
		RNG:        selector.NewRNG(r.Config.Seed),
		Now:        r.Now,
		Store:      h,
		Logger:     log,
		Duration:   r.SpinDuration,
		Range:      &rng,
		Exclusions: selector.ParseExclusions(exclude),
		Mode:       mode,
	})
}

func (r runner) doPlay() int {
	// the terminal belongs to the TUI from here on
	log, closeLog, err := tui.Logger(r.Config.LogFile, r.Config.LogLevel)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	defer closeLog()

	h, closeStore, err := r.openHistory()
	if err != nil {
		ui.Fail("open store: " + err.Error())
		return 1
	}
	defer closeStore()

	sess := r.session(log, h, r.Config.Range, r.Config.Exclude, r.Config.Mode)
	if err := tui.Run(sess, r.playOptions(log)); err != nil {
		ui.Fail(err.Error())
		return 1
	}
	return 0
}

func (r runner) doRoll(args []string) int {
	fs := flag.NewFlagSet("roll", flag.ContinueOnError)
	fs.SetOutput(ui.Stderr)
	lo := fs.Int("min", r.Config.Range.Min, "lowest number")
	hi := fs.Int("max", r.Config.Range.Max, "highest number")
	exclude := fs.String("exclude", r.Config.Exclude, "comma separated numbers to skip")
	modeName := fs.String("mode", string(r.Config.Mode), "normal or elimination")
	quiet := fs.Bool("quiet", false, "print only the result")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		ui.Fail("roll: unexpected arguments: " + strings.Join(fs.Args(), " "))
		return 2
	}
	mode, err := model.ParseMode(*modeName)
	if err != nil {
		ui.Fail("roll: " + err.Error())
		return 2
	}

	h, closeStore, err := r.openHistory()
	if err != nil {
		ui.Fail("open store: " + err.Error())
		return 1
	}
	defer closeStore()

	sess := r.session(r.Logger, h, model.Range{Min: *lo, Max: *hi}, *exclude, mode)
	if _, err := sess.Dispatch(selector.RequestSpin{}); err != nil {
		if errors.Is(err, selector.ErrNoCandidates) {
			r.notice(selector.NoCandidatesMessage)
			return 1
		}
		ui.Fail(err.Error())
		return 1
	}
	player := r.player(r.Logger)
	player.SpinStarted()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	var onFrame func(selector.Event)
	if !*quiet && ui.Interactive() {
		onFrame = newReelPrinter(sess, r.Now).frame
	}
	ev, err := sess.Drive(ctx, ticker.C, onFrame)
	if err != nil {
		fmt.Fprintln(ui.Stdout)
		ui.Fail("interrupted")
		return 1
	}
	player.ResultRevealed()

	if *quiet {
		fmt.Fprintln(ui.Stdout, ev.Record.Number)
		return 0
	}
	ui.OK(fmt.Sprintf("%d %s", ev.Record.Number, ui.C(ui.Current().Muted, "("+string(mode)+")")))
	if mode == model.ModeElimination {
		left := sess.Pool().Len()
		fmt.Fprintln(ui.Stdout, ui.C(ui.Current().Muted, fmt.Sprintf("exclude: %s  (%d left)", sess.ExclusionText(), left)))
	}
	return 0
}

func (r runner) doHistory() int {
	h, closeStore, err := r.openHistory()
	if err != nil {
		ui.Fail("open store: " + err.Error())
		return 1
	}
	defer closeStore()

	hist, err := h.LoadHistory()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}

	header := fmt.Sprintf("%s  %s %d  %s %d",
		ui.C(ui.Current().Title, "History"),
		ui.C(ui.Current().Accent, "Spins"), len(hist),
		ui.C(ui.Current().Muted, "Limit"), model.HistoryLimit,
	)
	lines := []string{header, ""}
	if len(hist) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "no spins yet"))
	} else {
		lines = append(lines, ui.HistoryLines(hist, r.Now())...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Muted, "Tip: spin with `spin roll` or `spin play`"))
	ui.Panel(lines)
	return 0
}

func (r runner) doClear() int {
	h, closeStore, err := r.openHistory()
	if err != nil {
		ui.Fail("open store: " + err.Error())
		return 1
	}
	defer closeStore()

	sess := r.session(r.Logger, h, r.Config.Range, "", r.Config.Mode)
	sess.Dispatch(selector.Reset{})
	if got, err := h.LoadHistory(); err != nil || len(got) != 0 {
		ui.Fail("clear: history was not saved")
		return 1
	}
	ui.OK("history cleared")
	return 0
}

func (r runner) notice(msg string) {
	n := r.notifier("roll")
	if n == nil {
		ui.Fail(msg)
		return
	}
	if err := n.Notify(msg); err != nil {
		r.Logger.Debug("notify", "error", err)
		ui.Fail(msg)
	}
}

// -------------- rendering helpers --------------

// reelPrinter redraws the reel and progress bar in place.
// The pool is captured up front so an eliminated result stays on the reel.
type reelPrinter struct {
	sess  *selector.Session
	pool  selector.Pool
	now   func() time.Time
	cell  int
	drawn bool
}

func newReelPrinter(sess *selector.Session, now func() time.Time) *reelPrinter {
	pool := sess.Pool()
	return &reelPrinter{sess: sess, pool: pool, now: now, cell: ui.CellWidth(pool)}
}

func (p *reelPrinter) frame(ev selector.Event) {
	slots := wheel.Window(p.pool, p.sess.Rotation(), wheel.PointerAngle, 5)
	progress := 1.0
	if ev.Kind == selector.EventSpinProgress {
		progress = p.sess.Progress(p.now())
	}
	if p.drawn {
		// back to the top of the three lines drawn last time
		fmt.Fprint(ui.Stdout, "\033[3A\r\033[J")
	}
	fmt.Fprintln(ui.Stdout, ui.Reel(slots, p.cell))
	fmt.Fprintln(ui.Stdout, ui.C(ui.Current().Muted, ui.ProgressBar(progress, 1, 28)))
	p.drawn = true
}
