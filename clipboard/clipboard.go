// Package clipboard publishes transcripts to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	atotto "github.com/atotto/clipboard"
	"github.com/gen2brain/beeep"
)

// ErrPublish wraps failures to write the clipboard.
var ErrPublish = errors.New("clipboard: publish failed")

// ErrUnsupported is returned when no clipboard utility is available
// (for example xclip, xsel or wl-copy on Linux).
var ErrUnsupported = errors.New("clipboard: no clipboard utility available")

// Publisher writes text somewhere the user can paste it from.
type Publisher interface {
	Publish(text string) error
}

// System writes to the operating system clipboard.
type System struct {
	mu sync.Mutex
}

// NewSystem returns a Publisher for the system clipboard.
func NewSystem() *System {
	return &System{}
}

// Publish replaces the clipboard contents with text.
func (s *System) Publish(text string) error {
	if atotto.Unsupported {
		return fmt.Errorf("%w: %w", ErrPublish, ErrUnsupported)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := atotto.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	return nil
}

// notifyFunc matches beeep.Notify.
type notifyFunc func(title, message string, icon any) error

// Notifying wraps a Publisher and raises a desktop notification after
// each successful publish. A notification error is returned even though
// the clipboard write has already happened.
type Notifying struct {
	next   Publisher
	title  string
	notify notifyFunc
}

// WithNotification decorates p with desktop notifications.
func WithNotification(p Publisher, title string) *Notifying {
	return &Notifying{next: p, title: title, notify: beeep.Notify}
}

// Publish forwards to the wrapped Publisher, then notifies.
func (n *Notifying) Publish(text string) error {
	if err := n.next.Publish(text); err != nil {
		return err
	}
	if err := n.notify(n.title, preview(text, 120), ""); err != nil {
		return fmt.Errorf("clipboard: notify: %w", err)
	}
	return nil
}

// preview shortens text to at most limit runes for a notification body.
func preview(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit-1]) + "…"
}
