package sound

import (
	"math"
	"testing"
	"time"
)

func drain(t *testing.T, tone Tone) [][2]float64 {
	t.Helper()
	s := tone.Streamer(SampleRate)
	var out [][2]float64
	buf := make([][2]float64, 512)
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
	t.Fatal("streamer never drained")
	return nil
}

func TestToneLength(t *testing.T) {
	for name, tone := range map[string]Tone{"spin": SpinTone, "result": ResultTone} {
		got := len(drain(t, tone))
		if want := SampleRate.N(tone.Length); got != want {
			t.Errorf("%s: %d samples, want %d", name, got, want)
		}
	}
}

func TestToneGainBounded(t *testing.T) {
	samples := drain(t, ResultTone)
	peak := 0.0
	for _, s := range samples {
		if s[0] != s[1] {
			t.Fatal("channels differ")
		}
		peak = math.Max(peak, math.Abs(s[0]))
	}
	if peak > ResultTone.FromGain+1e-9 {
		t.Errorf("peak %v above starting gain", peak)
	}
	if peak == 0 {
		t.Error("tone is silent")
	}
}

func TestToneFades(t *testing.T) {
	samples := drain(t, SpinTone)
	window := SampleRate.N(100 * time.Millisecond)
	peakOf := func(part [][2]float64) float64 {
		p := 0.0
		for _, s := range part {
			p = math.Max(p, math.Abs(s[0]))
		}
		return p
	}
	head := peakOf(samples[:window])
	tail := peakOf(samples[len(samples)-window:])
	if tail >= head {
		t.Errorf("tail peak %v not below head peak %v", tail, head)
	}
}

func TestRamp(t *testing.T) {
	if got := ramp(200, 50, 0); got != 200 {
		t.Errorf("start = %v", got)
	}
	if got := ramp(200, 50, 1); math.Abs(got-50) > 1e-9 {
		t.Errorf("end = %v", got)
	}
	if got := ramp(200, 50, 0.5); math.Abs(got-100) > 1e-9 {
		t.Errorf("middle = %v", got)
	}
}
