package wheel

import (
	"image/color"
	"math"
	"testing"

	"github.com/Makepad-fr/spin/internal/selector"
)

func TestSliceUnderAfterFirstSpin(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 10, 36, 100, 997} {
		for pos := 0; pos < n; pos++ {
			rot := selector.TargetRotation(0, pos, n)
			if got := SliceUnder(n, rot, PointerAngle); got != pos {
				t.Fatalf("n=%d pos=%d: pointer over slice %d", n, pos, got)
			}
		}
	}
}

// Each spin adds a full rotation for its own position on top of the last
// one, so from the second spin on the pointer rests over the running sum of
// positions rather than the winner.
func TestSliceUnderAccumulatesAcrossSpins(t *testing.T) {
	tests := []struct {
		n         int
		positions []int
		want      []int
	}{
		{7, []int{3, 5, 6}, []int{3, 1, 0}},
		{10, []int{9, 9, 9}, []int{9, 8, 7}},
		{4, []int{0, 2, 0}, []int{0, 2, 2}},
	}
	for _, tt := range tests {
		rot := 0.0
		for k, pos := range tt.positions {
			rot = selector.TargetRotation(rot, pos, tt.n)
			if got := SliceUnder(tt.n, rot, PointerAngle); got != tt.want[k] {
				t.Errorf("n=%d spin %d: pointer over slice %d, want %d", tt.n, k+1, got, tt.want[k])
			}
		}
	}
}

func TestSliceUnder(t *testing.T) {
	tests := []struct {
		n        int
		rotation float64
		want     int
	}{
		{4, 0, 0},
		{4, -45, 0},
		{4, -95, 1},
		{4, 90, 3},
		{4, 720, 0},
		{0, 0, -1},
	}
	for _, tt := range tests {
		if got := SliceUnder(tt.n, tt.rotation, PointerAngle); got != tt.want {
			t.Errorf("SliceUnder(%d, %v) = %d, want %d", tt.n, tt.rotation, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	for in, want := range map[float64]float64{0: 0, 360: 0, 370: 10, -10: 350, -720: 0} {
		if got := Normalize(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("Normalize(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestSpanCoversFullCircle(t *testing.T) {
	n := 6
	start0, _ := Span(0, n, 0)
	_, endLast := Span(n-1, n, 0)
	if math.Abs(endLast-start0-2*math.Pi) > 1e-9 {
		t.Errorf("slices cover %v radians", endLast-start0)
	}
}

func TestLabelPoint(t *testing.T) {
	x, y := LabelPoint(0, 2, 0, 100, 100, 50)
	// Slice 0 of 2 is the lower half; its middle is straight down.
	if math.Abs(x-100) > 1e-9 || math.Abs(y-135) > 1e-9 {
		t.Errorf("label at (%v, %v)", x, y)
	}
}

func TestSliceColor(t *testing.T) {
	red := SliceColor(0, 3)
	if red != (color.RGBA{R: 232, G: 125, B: 125, A: 255}) {
		t.Errorf("hue 0 = %+v", red)
	}
	if got := Hex(red); got != "#e87d7d" {
		t.Errorf("hex = %s", got)
	}
	if SliceColor(1, 3) == red {
		t.Error("neighbouring slices share a colour")
	}
}

type numbers []int

func (n numbers) Len() int     { return len(n) }
func (n numbers) At(i int) int { return n[i] }

func TestWindow(t *testing.T) {
	p := numbers{10, 20, 30, 40, 50}
	slots := Window(p, 0, PointerAngle, 1)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if slots[0].Number != 50 || slots[1].Number != 10 || slots[2].Number != 20 {
		t.Errorf("unexpected window %+v", slots)
	}
	if !slots[1].Pointer || slots[0].Pointer || slots[2].Pointer {
		t.Error("pointer flag on wrong slot")
	}

	if got := Window(numbers{7, 8}, 0, PointerAngle, 3); len(got) != 1 || got[0].Number != 7 {
		t.Errorf("small wheel window = %+v", got)
	}
	if Window(numbers{}, 0, PointerAngle, 3) != nil {
		t.Error("empty pool should give no slots")
	}
}

func TestParseHex(t *testing.T) {
	if got := ParseHex("#e83e8c"); got != (color.RGBA{R: 0xe8, G: 0x3e, B: 0x8c, A: 255}) {
		t.Errorf("ParseHex = %+v", got)
	}
	if got := ParseHex("nope"); got != (color.RGBA{A: 255}) {
		t.Errorf("bad input = %+v", got)
	}
	for _, h := range Neon {
		if Hex(ParseHex(h)) != h {
			t.Errorf("round trip %s", h)
		}
	}
}
