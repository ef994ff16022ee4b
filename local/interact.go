package local

import (
	"context"

	"github.com/veridom/veridom/dom"
	"github.com/veridom/veridom/probe"
)

// PressKey dispatches a keydown/keyup pair on the element, carrying the
// modifier flags on both events.
func (h *Handle) PressKey(_ context.Context, key string, mods ...probe.Modifier) error {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = string(m)
	}
	h.el.Dispatch(&dom.Event{Type: "keydown", Key: key, Mods: names, Bubbles: true})
	h.el.Dispatch(&dom.Event{Type: "keyup", Key: key, Mods: names, Bubbles: true})
	return nil
}

// DragTo simulates dragging this element onto target with the canonical
// four-event sequence: dragstart on the source, dragover then drop on the
// target, dragend on the source. All four carry the transfer payload; when
// opts.Payload is empty the source's id, falling back to its tag, is used.
func (h *Handle) DragTo(_ context.Context, target probe.Handle, opts probe.DragOptions) error {
	dst, ok := target.(*Handle)
	if !ok {
		return ErrForeignHandle
	}

	payload := opts.Payload
	if payload == "" {
		payload = h.el.ID()
		if payload == "" {
			payload = h.el.Tag()
		}
	}

	h.el.Dispatch(&dom.Event{Type: "dragstart", Data: payload, Bubbles: true})
	dst.el.Dispatch(&dom.Event{Type: "dragover", Data: payload, Bubbles: true})
	dst.el.Dispatch(&dom.Event{Type: "drop", Data: payload, Bubbles: true})
	h.el.Dispatch(&dom.Event{Type: "dragend", Data: payload, Bubbles: true})
	return nil
}
