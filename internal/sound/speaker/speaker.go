// Package speaker plays tones on the system audio device.
package speaker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/faiface/beep"
	beepspeaker "github.com/faiface/beep/speaker"

	"github.com/Makepad-fr/spin/internal/sound"
)

// Player is a sound.Player backed by beep's speaker. The device is opened on
// first use; if that fails audio stays off for the rest of the process.
type Player struct {
	log *slog.Logger

	once     sync.Once
	disabled bool
}

func New(log *slog.Logger) *Player {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Player{log: log}
}

func (p *Player) ready() bool {
	p.once.Do(func() {
		if err := beepspeaker.Init(sound.SampleRate, sound.SampleRate.N(time.Second/20)); err != nil {
			p.log.Debug("audio unavailable", "error", err)
			p.disabled = true
		}
	})
	return !p.disabled
}

func (p *Player) play(t sound.Tone) {
	if !p.ready() {
		return
	}
	beepspeaker.Play(beep.Seq(t.Streamer(sound.SampleRate)))
}

func (p *Player) SpinStarted()    { p.play(sound.SpinTone) }
func (p *Player) ResultRevealed() { p.play(sound.ResultTone) }
