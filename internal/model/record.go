package model

import (
	"fmt"
	"strings"
)

// HistoryLimit is how many records the history keeps.
const HistoryLimit = 10

// Mode decides what happens to a result once a spin completes.
type Mode string

const (
	ModeNormal      Mode = "normal"
	ModeElimination Mode = "elimination"
)

// ParseMode accepts "normal" or "elimination" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeNormal:
		return ModeNormal, nil
	case ModeElimination:
		return ModeElimination, nil
	}
	return "", fmt.Errorf("unknown mode %q (want normal or elimination)", s)
}

// Range is an inclusive integer range.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// SpinRecord is one completed spin.
type SpinRecord struct {
	Number    int    `json:"number"`
	Timestamp string `json:"timestamp"`
	Mode      Mode   `json:"mode"`
}

// History is newest first and never longer than HistoryLimit.
type History []SpinRecord

// Push prepends rec and drops the oldest entries past the limit.
func (h History) Push(rec SpinRecord) History {
	out := make(History, 0, min(len(h)+1, HistoryLimit))
	out = append(out, rec)
	for _, r := range h {
		if len(out) == HistoryLimit {
			break
		}
		out = append(out, r)
	}
	return out
}

// Trim cuts a history that came from somewhere else down to the limit.
func (h History) Trim() History {
	if len(h) > HistoryLimit {
		return h[:HistoryLimit]
	}
	return h
}
