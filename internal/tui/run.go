package tui

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/spin/internal/selector"
)

// Run starts the full-screen picker and blocks until the user quits.
func Run(sess *selector.Session, opt Options) error {
	p := tea.NewProgram(New(sess, opt), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// Logger returns a logger that stays off the terminal while the TUI owns it:
// a file when path is set, otherwise nothing. Call closeFn when done.
func Logger(path string, level slog.Level) (log *slog.Logger, closeFn func() error, err error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}
	f, err := tea.LogToFile(path, "spin")
	if err != nil {
		return nil, nil, fmt.Errorf("log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f.Close, nil
}
