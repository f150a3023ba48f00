package selector

import (
	"math"
	"strconv"
	"strings"

	"github.com/Makepad-fr/spin/internal/model"
)

// Defaults restored by Reset.
const (
	DefaultMin = 1
	DefaultMax = 100
)

// DefaultRange is [DefaultMin, DefaultMax].
func DefaultRange() model.Range {
	return model.Range{Min: DefaultMin, Max: DefaultMax}
}

// maxSpan is the widest Max-Min whose candidate count still fits in an int.
const maxSpan = math.MaxInt - 1

// NormalizeRange raises max to min+1 whenever min >= max. min is lowered
// from MaxInt so min+1 exists, and a range too wide to count has its max
// pulled in to min+maxSpan.
func NormalizeRange(min, max int) model.Range {
	if min == math.MaxInt {
		min--
	}
	if min >= max {
		max = min + 1
	}
	return clampSpan(model.Range{Min: min, Max: max})
}

// clampSpan narrows r so that Max-Min+1 is representable. Only a negative
// Min can be that far from Max, so Min+maxSpan does not overflow.
func clampSpan(r model.Range) model.Range {
	if r.Max >= r.Min && uint64(r.Max)-uint64(r.Min) > maxSpan {
		r.Max = r.Min + maxSpan
	}
	return r
}

// ParseBound reads a number the way a lenient form field would: leading
// whitespace, an optional sign, then digits. Anything after the digits is
// ignored. ok is false when there are no digits at all.
func ParseBound(s string) (n int, ok bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseExclusions splits comma-separated text into numbers. Tokens that do
// not start with a number are dropped, duplicates are kept once, and the
// order of first appearance is preserved.
func ParseExclusions(text string) []int {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []int
	seen := make(map[int]bool)
	for _, tok := range strings.Split(text, ",") {
		n, ok := ParseBound(tok)
		if !ok || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// FormatExclusions is the inverse of ParseExclusions.
func FormatExclusions(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
