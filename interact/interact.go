// Package interact builds the composite interaction vocabulary on top of the
// raw probe capabilities: canonical keyboard combinations, character-by-
// character typing, and drag gestures that read the same against either
// substrate.
package interact

import (
	"context"
	"fmt"
	"time"

	"github.com/veridom/veridom/probe"
)

// Keyboard issues key presses through one handle's raw interaction surface.
// Construct with NewKeyboard; methods on the zero value panic.
type Keyboard struct {
	target probe.Interactor
}

// NewKeyboard returns a Keyboard pressing keys against target, typically the
// currently focused element.
func NewKeyboard(target probe.Interactor) *Keyboard {
	return &Keyboard{target: target}
}

// Press dispatches a single key press with the given modifiers held.
func (k *Keyboard) Press(ctx context.Context, key string, mods ...probe.Modifier) error {
	return k.target.PressKey(ctx, key, mods...)
}

// Tab moves focus to the next control.
func (k *Keyboard) Tab(ctx context.Context) error { return k.Press(ctx, "Tab") }

// ShiftTab moves focus to the previous control.
func (k *Keyboard) ShiftTab(ctx context.Context) error {
	return k.Press(ctx, "Tab", probe.ModShift)
}

// Enter confirms the focused control.
func (k *Keyboard) Enter(ctx context.Context) error { return k.Press(ctx, "Enter") }

// Escape dismisses the focused control.
func (k *Keyboard) Escape(ctx context.Context) error { return k.Press(ctx, "Escape") }

// SelectAll selects the focused control's whole content.
func (k *Keyboard) SelectAll(ctx context.Context) error {
	return k.Press(ctx, "a", probe.ModControl)
}

// Copy copies the current selection.
func (k *Keyboard) Copy(ctx context.Context) error {
	return k.Press(ctx, "c", probe.ModControl)
}

// Paste inserts the clipboard content at the caret.
func (k *Keyboard) Paste(ctx context.Context) error {
	return k.Press(ctx, "v", probe.ModControl)
}

// Cut removes the current selection onto the clipboard.
func (k *Keyboard) Cut(ctx context.Context) error {
	return k.Press(ctx, "x", probe.ModControl)
}

// Undo reverts the last edit.
func (k *Keyboard) Undo(ctx context.Context) error {
	return k.Press(ctx, "z", probe.ModControl)
}

// Redo reapplies the last reverted edit.
func (k *Keyboard) Redo(ctx context.Context) error {
	return k.Press(ctx, "y", probe.ModControl)
}

// TypeSequence presses each character of text in order. A positive delay
// pauses between presses, never after the last one. Cancelling the context
// aborts a pending pause; a press already handed to the substrate runs to
// completion.
func (k *Keyboard) TypeSequence(ctx context.Context, text string, delay time.Duration) error {
	first := true
	for _, r := range text {
		if !first && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		first = false
		if err := k.Press(ctx, string(r)); err != nil {
			return fmt.Errorf("interact: press %q: %w", r, err)
		}
	}
	return nil
}

// Drag drags source onto target. Each substrate supplies its own gesture:
// the local adapter synthesizes the dragstart/dragover/drop/dragend event
// sequence, the remote adapter drives the pointer.
func Drag(ctx context.Context, source probe.Interactor, target probe.Handle, opts probe.DragOptions) error {
	return source.DragTo(ctx, target, opts)
}

// DragToCoordinates drags source to absolute page coordinates. Only the
// remote substrate has a coordinate space; any other handle fails with an
// UnsupportedError.
func DragToCoordinates(ctx context.Context, source probe.Handle, x, y float64, opts probe.DragOptions) error {
	ext, ok := source.(probe.Extended)
	if !ok {
		return &probe.UnsupportedError{Op: "drag to coordinates", Substrate: source.Substrate()}
	}
	return ext.DragToCoordinates(ctx, x, y, opts)
}
