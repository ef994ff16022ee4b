// Package local adapts an in-process dom.Document to the probe capability
// contract. Every operation completes synchronously; the context parameters
// exist for contract symmetry with the remote substrate and are never used
// to wait.
//
// The adapter borrows the document from the test fixture and never owns its
// lifetime.
package local

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/veridom/veridom/dom"
	"github.com/veridom/veridom/probe"
)

// ErrForeignHandle is returned when an interaction pairs a local handle with
// a handle from another substrate.
var ErrForeignHandle = errors.New("local: handle belongs to a different substrate")

// Adapter exposes one document as a lookup substrate.
type Adapter struct {
	doc *dom.Document
}

// New wraps an existing document.
func New(doc *dom.Document) *Adapter {
	return &Adapter{doc: doc}
}

// Document returns the underlying document.
func (a *Adapter) Document() *dom.Document { return a.doc }

// Element returns a handle to the first element matching by, in document
// order. No match is a NotFoundError naming the criterion.
func (a *Adapter) Element(by probe.By) (*Handle, error) {
	els, err := a.lookup(by)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, &probe.NotFoundError{By: by}
	}
	return &Handle{ad: a, el: els[0]}, nil
}

// Elements returns handles to every element matching by. Zero matches is a
// NotFoundError, like the singular lookup: lookups never return an empty
// result silently.
func (a *Adapter) Elements(by probe.By) ([]*Handle, error) {
	els, err := a.lookup(by)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, &probe.NotFoundError{By: by}
	}
	out := make([]*Handle, len(els))
	for i, el := range els {
		out[i] = &Handle{ad: a, el: el}
	}
	return out, nil
}

// Assert looks up an element and wraps it for assertions.
func (a *Adapter) Assert(by probe.By, opts ...probe.Option) (*probe.Assertion, error) {
	h, err := a.Element(by)
	if err != nil {
		return nil, err
	}
	return probe.NewAssertion(h, opts...), nil
}

func (a *Adapter) lookup(by probe.By) ([]*dom.Element, error) {
	if css, ok := by.Selector(); ok {
		return a.doc.FindAll(css), nil
	}
	switch by.Kind {
	case probe.KindLabel:
		return a.findByLabel(by.Value), nil
	case probe.KindText:
		return a.findByText(by.Value, false), nil
	case probe.KindPartialText:
		return a.findByText(by.Value, true), nil
	default:
		return nil, fmt.Errorf("local: lookup kind %q has no document strategy", by.Kind)
	}
}

// findByLabel resolves label text to the labelled control: a label whose
// trimmed text equals value labels the element its for attribute references,
// or the first form control it wraps.
func (a *Adapter) findByLabel(value string) []*dom.Element {
	var out []*dom.Element
	for _, label := range a.doc.FindAll("label") {
		if strings.TrimSpace(label.Text()) != value {
			continue
		}
		if forID, ok := label.Attr("for"); ok && forID != "" {
			if el := a.doc.ElementByID(forID); el != nil {
				out = append(out, el)
			}
			continue
		}
		for _, ctl := range a.doc.FindAll("input, select, textarea") {
			if label.Contains(ctl) {
				out = append(out, ctl)
				break
			}
		}
	}
	return out
}

// findByText matches elements by trimmed text content, exact or substring.
// Ancestors whose match comes only from a matching descendant are dropped,
// so the deepest matching elements win.
func (a *Adapter) findByText(value string, partial bool) []*dom.Element {
	var matches []*dom.Element
	for _, el := range a.doc.FindAll("*") {
		switch el.Tag() {
		case "script", "style", "html", "head":
			continue
		}
		text := strings.TrimSpace(el.Text())
		if partial {
			if strings.Contains(text, value) {
				matches = append(matches, el)
			}
		} else if text == value {
			matches = append(matches, el)
		}
	}

	var deepest []*dom.Element
	for _, m := range matches {
		inner := false
		for _, other := range matches {
			if m.Same(other) {
				continue
			}
			if m.Contains(other) {
				inner = true
				break
			}
		}
		if !inner {
			deepest = append(deepest, m)
		}
	}
	return deepest
}

// Handle is a local element reference. It implements the probe capability
// contract, the interaction surface, the instrumentation node surface, and
// the accessibility node surface.
type Handle struct {
	ad *Adapter
	el *dom.Element
}

// Element returns the underlying document element.
func (h *Handle) Element() *dom.Element { return h.el }

// Substrate tags the handle as local.
func (h *Handle) Substrate() probe.Substrate { return probe.SubstrateLocal }

// Visible reports style-only visibility; it never waits.
func (h *Handle) Visible(context.Context) (bool, error) {
	return h.el.Visible(), nil
}

// Attached reports whether the element is still in its document.
func (h *Handle) Attached(context.Context) (bool, error) {
	return h.el.Attached(), nil
}

// Text returns the element's text content.
func (h *Handle) Text(context.Context) (string, error) {
	return h.el.Text(), nil
}

// Attribute returns an attribute value and its presence.
func (h *Handle) Attribute(_ context.Context, name string) (string, bool, error) {
	v, ok := h.el.Attr(name)
	return v, ok, nil
}

// Click dispatches a bubbling click event.
func (h *Handle) Click(context.Context) error {
	h.el.Click()
	return nil
}

// Focus moves document focus to the element.
func (h *Handle) Focus(context.Context) error {
	h.el.Focus()
	return nil
}

// Type focuses the element and appends text to its live value character by
// character, dispatching a keydown/input/keyup triple per character.
func (h *Handle) Type(_ context.Context, text string) error {
	h.el.Focus()
	for _, r := range text {
		key := string(r)
		h.el.Dispatch(&dom.Event{Type: "keydown", Key: key, Bubbles: true})
		h.el.SetValue(h.el.Value() + key)
		h.el.Dispatch(&dom.Event{Type: "keyup", Key: key, Bubbles: true})
	}
	return nil
}
