package sound

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// SampleRate used for every tone.
const SampleRate beep.SampleRate = 44100

// Tone is a sine wave whose pitch glides exponentially from FromHz to ToHz
// over Glide and then holds, while its gain fades exponentially from
// FromGain to ToGain over Length.
type Tone struct {
	FromHz, ToHz     float64
	Glide            time.Duration
	FromGain, ToGain float64
	Length           time.Duration
}

var (
	// SpinTone plays while the wheel turns.
	SpinTone = Tone{FromHz: 200, ToHz: 50, Glide: 3 * time.Second, FromGain: 0.1, ToGain: 0.01, Length: 3 * time.Second}
	// ResultTone is the short chirp when the number is revealed.
	ResultTone = Tone{FromHz: 400, ToHz: 800, Glide: 100 * time.Millisecond, FromGain: 0.1, ToGain: 0.01, Length: 200 * time.Millisecond}
)

// Streamer renders the tone at sr. It drains after Length.
func (t Tone) Streamer(sr beep.SampleRate) beep.Streamer {
	total := sr.N(t.Length)
	glide := sr.N(t.Glide)
	var (
		pos   int
		phase float64
	)
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				break
			}
			freq := t.ToHz
			if pos < glide {
				freq = ramp(t.FromHz, t.ToHz, float64(pos)/float64(glide))
			}
			gain := ramp(t.FromGain, t.ToGain, float64(pos)/float64(total))
			v := gain * math.Sin(phase)
			samples[i][0], samples[i][1] = v, v
			phase += 2 * math.Pi * freq / float64(sr)
			if phase > 2*math.Pi {
				phase -= 2 * math.Pi
			}
			pos++
			n++
		}
		return n, true
	})
}

// ramp is an exponential interpolation, like an audio param ramp.
func ramp(from, to, p float64) float64 {
	if from <= 0 || to <= 0 {
		return from + (to-from)*p
	}
	return from * math.Pow(to/from, p)
}

// Player gives audible feedback. Implementations must never block the caller
// for longer than it takes to queue the sound, and never fail it.
type Player interface {
	SpinStarted()
	ResultRevealed()
}

// Nop is a silent Player.
type Nop struct{}

func (Nop) SpinStarted()    {}
func (Nop) ResultRevealed() {}
