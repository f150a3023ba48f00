// Package wheel holds the geometry and palette shared by every wheel renderer.
//
// Angles are in degrees unless a name says otherwise. Slices run clockwise
// from angle 0 (3 o'clock): slice i covers [i*s + rotation, (i+1)*s + rotation)
// where s = 360/n.
package wheel

import (
	"fmt"
	"image/color"
	"math"
)

// PointerAngle is where the pointer sits.
const PointerAngle = 0.0

// boundary slack so a slice edge resting exactly on the pointer counts as that slice
const edgeEpsilon = 1e-7

// SliceAngle is the width of one slice.
func SliceAngle(n int) float64 {
	if n <= 0 {
		return 360
	}
	return 360 / float64(n)
}

// Normalize folds any angle into [0, 360).
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// SliceUnder returns the slice index under the pointer, or -1 for an empty wheel.
func SliceUnder(n int, rotation, pointer float64) int {
	if n <= 0 {
		return -1
	}
	s := SliceAngle(n)
	a := Normalize(pointer - rotation + edgeEpsilon)
	i := int(a / s)
	if i >= n {
		i = n - 1
	}
	return i
}

// Span returns slice i's start and end in radians, ready for drawing.
func Span(i, n int, rotation float64) (start, end float64) {
	s := SliceAngle(n)
	start = (float64(i)*s + rotation) * math.Pi / 180
	end = (float64(i+1)*s + rotation) * math.Pi / 180
	return start, end
}

// LabelPoint is where slice i's label goes for a wheel of radius r centred on
// (cx, cy). The label sits at 70% of the radius, halfway through the slice.
func LabelPoint(i, n int, rotation, cx, cy, r float64) (x, y float64) {
	start, end := Span(i, n, rotation)
	mid := (start + end) / 2
	return cx + math.Cos(mid)*r*0.7, cy + math.Sin(mid)*r*0.7
}

// SliceColor is hsl(i*360/n, 70%, 70%).
func SliceColor(i, n int) color.RGBA {
	if n <= 0 {
		n = 1
	}
	hue := math.Mod(float64(i)*360/float64(n), 360)
	r, g, b := hslToRGB(hue, 0.7, 0.7)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Hex renders a colour as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Neon is the confetti and particle palette.
var Neon = []string{"#007bff", "#6f42c1", "#e83e8c", "#28a745"}

// ParseHex reads "#rrggbb". Anything else is opaque black.
func ParseHex(s string) color.RGBA {
	c := color.RGBA{A: 255}
	if len(s) != 7 || s[0] != '#' {
		return c
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return color.RGBA{A: 255}
	}
	return c
}

// hslToRGB converts HSL (hue: 0-360, saturation and lightness: 0-1).
func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return to8(r + m), to8(g + m), to8(b + m)
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Slices is what a renderer needs from a candidate pool.
type Slices interface {
	Len() int
	At(i int) int
}

// Slot is one visible slice of a window onto the wheel.
type Slot struct {
	Index   int
	Number  int
	Color   color.RGBA
	Pointer bool
}

// Window returns the slice under the pointer with up to radius neighbours on
// each side, in slice order. Small wheels show each slice at most once.
func Window(p Slices, rotation, pointer float64, radius int) []Slot {
	n := p.Len()
	if n == 0 {
		return nil
	}
	radius = min(radius, (n-1)/2)
	center := SliceUnder(n, rotation, pointer)
	out := make([]Slot, 0, 2*radius+1)
	for off := -radius; off <= radius; off++ {
		i := ((center+off)%n + n) % n
		out = append(out, Slot{Index: i, Number: p.At(i), Color: SliceColor(i, n), Pointer: off == 0})
	}
	return out
}
