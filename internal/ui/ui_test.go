package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Makepad-fr/spin/internal/model"
	"github.com/Makepad-fr/spin/internal/selector"
	"github.com/Makepad-fr/spin/internal/wheel"
)

func withOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := Stdout, Stderr
	Stdout, Stderr = &out, &errOut
	t.Cleanup(func() {
		Stdout, Stderr = prevOut, prevErr
		SetTheme("classic")
		SetColorForcing(false, false)
	})
	return &out, &errOut
}

func TestOKAndFailWithoutTTY(t *testing.T) {
	out, errOut := withOutput(t)
	OK("saved")
	Fail("broken")
	if out.String() != "✔ saved\n" {
		t.Errorf("stdout = %q", out.String())
	}
	if errOut.String() != "✖ broken\n" {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestColorForcing(t *testing.T) {
	withOutput(t)
	SetColorForcing(true, false)
	if got := C(fgRed, "x"); got != fgRed+"x"+reset {
		t.Errorf("forced colour = %q", got)
	}
	SetColorForcing(true, true)
	if got := C(fgRed, "x"); got != "x" {
		t.Errorf("disabled colour = %q", got)
	}
}

func TestProgressBar(t *testing.T) {
	withOutput(t)
	if got := ProgressBar(1, 2, 10); got != "█████░░░░░  50%" {
		t.Errorf("half = %q", got)
	}
	if got := ProgressBar(5, 2, 4); !strings.HasSuffix(got, "100%") || strings.Count(got, "█") != 5 {
		t.Errorf("overflow = %q", got)
	}
	SetTheme("mono")
	if got := ProgressBar(0, 0, 5); got != ".....   0%" {
		t.Errorf("mono empty = %q", got)
	}
}

func TestPanelAlignsColouredLines(t *testing.T) {
	out, _ := withOutput(t)
	SetColorForcing(true, false)
	Panel([]string{C(fgGreen, "ab"), "abcd"})
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %q", out.String())
	}
	if visibleWidth(lines[1]) != visibleWidth(lines[2]) || visibleWidth(lines[0]) != visibleWidth(lines[3]) {
		t.Errorf("ragged panel:\n%s", out.String())
	}
}

func TestHistoryLines(t *testing.T) {
	withOutput(t)
	now := time.Date(2025, 3, 1, 12, 5, 0, 0, time.UTC)
	h := model.History{
		{Number: 42, Timestamp: now.Add(-3 * time.Minute).Format(time.RFC3339), Mode: model.ModeElimination},
		{Number: 7, Timestamp: "12:00:00 PM", Mode: model.ModeNormal},
	}
	lines := HistoryLines(h, now)
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "42") || !strings.Contains(lines[0], "3 minutes ago") || !strings.Contains(lines[0], "(elimination)") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "12:00:00 PM (normal)") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestReelMarksPointer(t *testing.T) {
	withOutput(t)
	slots := []wheel.Slot{
		{Index: 4, Number: 5},
		{Index: 0, Number: 1, Pointer: true},
		{Index: 1, Number: 2},
	}
	out := Reel(slots, 2)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", out)
	}
	arrow := strings.Index(lines[0], Current().Pointer)
	if arrow < 0 {
		t.Fatalf("no pointer in %q", lines[0])
	}
	plain := ansiRegexp.ReplaceAllString(lines[1], "")
	if !strings.Contains(plain, " 5") || !strings.Contains(plain, " 1") || !strings.Contains(plain, " 2") {
		t.Errorf("numbers missing: %q", plain)
	}
	if Reel(nil, 2) != "(no numbers)" {
		t.Error("empty reel")
	}
}

func TestCellWidth(t *testing.T) {
	p := selector.NewPool(model.Range{Min: -12, Max: 5}, nil)
	if got := CellWidth(p); got != 3 {
		t.Errorf("CellWidth = %d", got)
	}
}
