// Package notify shows blocking notices to the user.
package notify

import (
	"errors"
	"fmt"
	"io"

	"github.com/ncruces/zenity"
)

// Notifier shows a message and returns once the user has seen it.
type Notifier interface {
	Notify(message string) error
}

// Dialog pops a desktop warning dialog and waits for it to be dismissed.
type Dialog struct {
	Title string
}

func (d Dialog) Notify(message string) error {
	title := d.Title
	if title == "" {
		title = "Spin"
	}
	err := zenity.Warning(message, zenity.Title(title), zenity.OKLabel("OK"))
	if err != nil && !errors.Is(err, zenity.ErrCanceled) {
		return fmt.Errorf("dialog: %w", err)
	}
	return nil
}

// Writer prints the notice, for terminals and tests.
type Writer struct {
	W io.Writer
}

func (w Writer) Notify(message string) error {
	_, err := fmt.Fprintln(w.W, message)
	return err
}

// Fallback tries Primary and falls back to Secondary when it fails.
type Fallback struct {
	Primary, Secondary Notifier
}

func (f Fallback) Notify(message string) error {
	if err := f.Primary.Notify(message); err != nil {
		if f.Secondary == nil {
			return err
		}
		return f.Secondary.Notify(message)
	}
	return nil
}
