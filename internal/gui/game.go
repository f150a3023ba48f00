// Package gui draws the wheel in a desktop window with Ebitengine.
package gui

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Makepad-fr/spin/internal/model"
	"github.com/Makepad-fr/spin/internal/notify"
	"github.com/Makepad-fr/spin/internal/selector"
	"github.com/Makepad-fr/spin/internal/sound"
	"github.com/Makepad-fr/spin/internal/ui"
	"github.com/Makepad-fr/spin/internal/wheel"
)

const (
	WindowWidth  = 960
	WindowHeight = 600

	wheelRadius = 220
	hubRadius   = 18

	// wedges drawn at most; wider pools share a wedge per colour band
	maxWedges = 360
	// pools up to this size get numbers on their slices
	maxLabels = 40

	particleCount    = 60
	confettiDuration = 5 * time.Second
)

var (
	background = color.RGBA{R: 18, G: 20, B: 28, A: 255}
	hubColor   = color.RGBA{R: 240, G: 240, B: 245, A: 255}
	pointerCol = color.RGBA{R: 232, G: 62, B: 140, A: 255}
	rimColor   = color.RGBA{R: 60, G: 70, B: 90, A: 255}
)

var whiteSubImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

// Options wire the collaborators around the session.
type Options struct {
	Player   sound.Player
	Notifier notify.Notifier
	Logger   *slog.Logger
	Now      func() time.Time
}

// Game is an ebiten.Game over one selector.Session.
type Game struct {
	sess     *selector.Session
	player   sound.Player
	notifier notify.Notifier
	log      *slog.Logger
	now      func() time.Time

	revealedAt time.Time

	// notice state: a dialog runs on its own goroutine and reports back here
	noticeOpen bool
	noticeDone chan error
	notice     string
}

func New(sess *selector.Session, opt Options) *Game {
	if opt.Player == nil {
		opt.Player = sound.Nop{}
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	return &Game{
		sess:       sess,
		player:     opt.Player,
		notifier:   opt.Notifier,
		log:        opt.Logger,
		now:        opt.Now,
		noticeDone: make(chan error, 1),
	}
}

func (g *Game) Update() error {
	now := g.now()
	if ev, _ := g.sess.Dispatch(selector.Frame{Now: now}); ev.Kind == selector.EventSpinFinished {
		g.player.ResultRevealed()
		g.revealedAt = now
	}

	if g.noticeOpen {
		select {
		case err := <-g.noticeDone:
			g.noticeOpen = false
			if err != nil {
				g.log.Warn("notice dialog", "error", err)
				g.notice = selector.NoCandidatesMessage
			}
		default:
			return nil
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if g.notice != "" {
		if len(inpututil.AppendJustPressedKeys(nil)) > 0 {
			g.notice = ""
		}
		return nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.spin()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.sess.Dispatch(selector.SetMode{Mode: model.ModeNormal})
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.sess.Dispatch(selector.SetMode{Mode: model.ModeElimination})
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.sess.Dispatch(selector.Reset{})
		g.revealedAt = time.Time{}
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.adjust(0, 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.adjust(0, -1)
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		g.adjust(1, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		g.adjust(-1, 0)
	}
	return nil
}

func (g *Game) spin() {
	ev, err := g.sess.Dispatch(selector.RequestSpin{})
	if errors.Is(err, selector.ErrNoCandidates) {
		g.alert(selector.NoCandidatesMessage)
		return
	}
	if ev.Kind == selector.EventSpinStarted {
		g.player.SpinStarted()
		g.revealedAt = time.Time{}
	}
}

// adjust nudges the bounds; normalization keeps max above min.
func (g *Game) adjust(dMin, dMax int) {
	r := g.sess.Range()
	g.sess.Dispatch(selector.SetRange{Min: r.Min + dMin, Max: r.Max + dMax})
}

func (g *Game) alert(msg string) {
	if g.notifier == nil {
		g.notice = msg
		return
	}
	g.noticeOpen = true
	n := g.notifier
	go func() { g.noticeDone <- n.Notify(msg) }()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	now := g.now()

	cx, cy := float64(WindowWidth)/2+80, float64(WindowHeight)/2+20
	g.drawWheel(screen, cx, cy)
	g.drawPointer(screen, cx, cy)
	g.drawConfetti(screen, cx, cy, now)
	g.drawText(screen, now)

	if g.notice != "" {
		vector.DrawFilledRect(screen, 140, 250, WindowWidth-280, 80, color.RGBA{R: 60, G: 10, B: 20, A: 230}, false)
		vector.StrokeRect(screen, 140, 250, WindowWidth-280, 80, 2, pointerCol, false)
		ebitenutil.DebugPrintAt(screen, g.notice, 170, 275)
		ebitenutil.DebugPrintAt(screen, "press any key", 170, 295)
	}
}

func (g *Game) drawWheel(screen *ebiten.Image, cx, cy float64) {
	pool := g.sess.Pool()
	n := pool.Len()
	rot := g.sess.Rotation()

	if n == 0 {
		vector.StrokeCircle(screen, float32(cx), float32(cy), wheelRadius, 2, rimColor, true)
		ebitenutil.DebugPrintAt(screen, "no numbers", int(cx)-30, int(cy)-40)
		return
	}

	wedges := min(n, maxWedges)
	for k := 0; k < wedges; k++ {
		first := k * n / wedges
		last := (k+1)*n/wedges - 1
		start, _ := wheel.Span(first, n, rot)
		_, end := wheel.Span(last, n, rot)
		fillWedge(screen, cx, cy, wheelRadius, start, end, wheel.SliceColor(first, n))
	}
	vector.StrokeCircle(screen, float32(cx), float32(cy), wheelRadius, 2, rimColor, true)

	if n <= maxLabels {
		for i := 0; i < n; i++ {
			x, y := wheel.LabelPoint(i, n, rot, cx, cy, wheelRadius)
			label := strconv.Itoa(pool.At(i))
			ebitenutil.DebugPrintAt(screen, label, int(x)-3*len(label), int(y)-8)
		}
	}
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), hubRadius, hubColor, true)
}

// drawPointer puts a triangle at the pointer angle, tip touching the rim.
func (g *Game) drawPointer(screen *ebiten.Image, cx, cy float64) {
	a := wheel.PointerAngle * math.Pi / 180
	tipX, tipY := cx+math.Cos(a)*(wheelRadius-10), cy+math.Sin(a)*(wheelRadius-10)
	baseX, baseY := cx+math.Cos(a)*(wheelRadius+24), cy+math.Sin(a)*(wheelRadius+24)
	px, py := -math.Sin(a)*14, math.Cos(a)*14

	var path vector.Path
	path.MoveTo(float32(tipX), float32(tipY))
	path.LineTo(float32(baseX+px), float32(baseY+py))
	path.LineTo(float32(baseX-px), float32(baseY-py))
	path.Close()
	fillPath(screen, &path, pointerCol)
}

func (g *Game) drawConfetti(screen *ebiten.Image, cx, cy float64, now time.Time) {
	age := now.Sub(g.revealedAt)
	if g.revealedAt.IsZero() || age < 0 || age >= confettiDuration {
		return
	}
	t := age.Seconds()
	fade := 1 - t/confettiDuration.Seconds()
	for i := 0; i < particleCount; i++ {
		angle := float64(i) * 2 * math.Pi / particleCount
		speed := 80 + float64(i%7)*25
		x := cx + math.Cos(angle)*speed*t
		y := cy + math.Sin(angle)*speed*t + 40*t*t
		base := wheel.ParseHex(wheel.Neon[i%len(wheel.Neon)])
		// premultiplied alpha
		c := color.RGBA{
			R: uint8(float64(base.R) * fade),
			G: uint8(float64(base.G) * fade),
			B: uint8(float64(base.B) * fade),
			A: uint8(255 * fade),
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(2+i%3), c, true)
	}
}

func (g *Game) drawText(screen *ebiten.Image, now time.Time) {
	r := g.sess.Range()
	mode := "normal"
	if g.sess.Mode() == model.ModeElimination {
		mode = "elimination"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Spin  range %d..%d  left %d  mode %s", r.Min, r.Max, g.sess.Pool().Len(), mode), 12, 12)
	ebitenutil.DebugPrintAt(screen, "Space: spin  N/E: mode  C: clear  Left/Right: min  Up/Down: max  Esc/Q: quit", 12, 30)
	if ex := g.sess.ExclusionText(); ex != "" {
		ebitenutil.DebugPrintAt(screen, "excluded: "+ex, 12, 48)
	}

	result := "--"
	if n, ok := g.sess.Result(); ok && !g.sess.Spinning() {
		result = strconv.Itoa(n)
	}
	ebitenutil.DebugPrintAt(screen, "Result: "+result, 12, 84)

	// the debug font is ASCII only
	y := 120
	ebitenutil.DebugPrintAt(screen, "History", 12, y)
	for i, rec := range g.sess.History() {
		y += 18
		line := fmt.Sprintf("%2d. %6d  %s", i+1, rec.Number, strings.ReplaceAll(ui.When(rec.Timestamp, now), "·", "-"))
		ebitenutil.DebugPrintAt(screen, line, 12, y)
	}
}

func fillWedge(screen *ebiten.Image, cx, cy, r, start, end float64, c color.RGBA) {
	var path vector.Path
	path.MoveTo(float32(cx), float32(cy))
	path.Arc(float32(cx), float32(cy), float32(r), float32(start), float32(end), vector.Clockwise)
	path.Close()
	fillPath(screen, &path, c)
}

func fillPath(screen *ebiten.Image, path *vector.Path, c color.RGBA) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(c.R) / 255
		vs[i].ColorG = float32(c.G) / 255
		vs[i].ColorB = float32(c.B) / 255
		vs[i].ColorA = float32(c.A) / 255
	}
	screen.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}
