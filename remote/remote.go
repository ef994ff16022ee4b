package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/veridom/veridom/probe"
)

// Adapter binds the probe contract to one open page.
type Adapter struct {
	page *rod.Page
	cfg  Config
}

// Page returns the underlying automation page.
func (a *Adapter) Page() *rod.Page { return a.page }

// Close closes the page. The session stays usable for further Open calls.
func (a *Adapter) Close() error { return a.page.Close() }

// Element returns a deferred handle for the criterion. The lookup verifies
// the element is resolvable within the wait window before returning; later
// capability calls re-resolve it, so the handle survives re-renders that
// replace the node.
func (a *Adapter) Element(ctx context.Context, by probe.By) (*Handle, error) {
	h := &Handle{ad: a, by: by}
	if _, err := h.resolve(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Elements returns pinned handles for every current match. It waits for the
// first match, then collects the rest as they stand.
func (a *Adapter) Elements(ctx context.Context, by probe.By) ([]*Handle, error) {
	sel, ok := by.Selector()
	if !ok {
		// Label and text criteria resolve one element at a time.
		h, err := a.Element(ctx, by)
		if err != nil {
			return nil, err
		}
		return []*Handle{h}, nil
	}

	page := a.page.Context(ctx).Timeout(a.cfg.WaitTimeout)
	if _, err := page.Element(sel); err != nil {
		return nil, &probe.NotFoundError{By: by}
	}
	els, err := page.Elements(sel)
	if err != nil {
		return nil, fmt.Errorf("remote: collect %s: %w", by, err)
	}
	if len(els) == 0 {
		return nil, &probe.NotFoundError{By: by}
	}
	handles := make([]*Handle, 0, len(els))
	for _, el := range els {
		handles = append(handles, &Handle{ad: a, by: by, el: el})
	}
	return handles, nil
}

// Assert looks the element up and wraps it in an assertion in one call.
func (a *Adapter) Assert(ctx context.Context, by probe.By, opts ...probe.Option) (*probe.Assertion, error) {
	h, err := a.Element(ctx, by)
	if err != nil {
		return nil, err
	}
	return probe.NewAssertion(h, opts...), nil
}

// Handle is a deferred element reference. A nil el means the handle re-runs
// its locator on every capability call; a pinned el (plural lookups,
// document dereferences) is used directly.
type Handle struct {
	ad *Adapter
	by probe.By
	el *rod.Element
}

// resolve produces the live element behind the handle.
func (h *Handle) resolve(ctx context.Context) (*rod.Element, error) {
	if h.el != nil {
		return h.el.Context(ctx), nil
	}

	page := h.ad.page.Context(ctx).Timeout(h.ad.cfg.WaitTimeout)

	if sel, ok := h.by.Selector(); ok {
		el, err := page.Element(sel)
		if err != nil {
			return nil, &probe.NotFoundError{By: h.by}
		}
		return el, nil
	}

	var el *rod.Element
	var err error
	switch h.by.Kind {
	case probe.KindLabel:
		el, err = page.ElementByJS(rod.Eval(jsFindByLabel, h.by.Value))
	case probe.KindText:
		el, err = page.ElementByJS(rod.Eval(jsFindByText, h.by.Value, true))
	case probe.KindPartialText:
		el, err = page.ElementByJS(rod.Eval(jsFindByText, h.by.Value, false))
	default:
		return nil, fmt.Errorf("remote: lookup kind %q has no channel strategy", h.by.Kind)
	}
	if err != nil {
		return nil, &probe.NotFoundError{By: h.by}
	}
	return el, nil
}

// notFound reports whether err is the absence of an element rather than a
// channel failure.
func notFound(err error) bool {
	var nf *probe.NotFoundError
	return errors.As(err, &nf)
}

// Substrate reports the environment backing the handle.
func (h *Handle) Substrate() probe.Substrate { return probe.SubstrateRemote }

// Visible reports whether the element's computed style shows it. An element
// that never resolves within the wait window reports false rather than an
// error, so hidden-state assertions read the same on both substrates.
func (h *Handle) Visible(ctx context.Context) (bool, error) {
	el, err := h.resolve(ctx)
	if err != nil {
		if notFound(err) {
			return false, nil
		}
		return false, err
	}
	res, err := el.Eval(jsStyleVisible)
	if err != nil {
		return false, fmt.Errorf("remote: visibility: %w", err)
	}
	return res.Value.Bool(), nil
}

// Attached reports whether the element resolves and sits in the document.
// Absence within the wait window reads as detached, not as an error.
func (h *Handle) Attached(ctx context.Context) (bool, error) {
	el, err := h.resolve(ctx)
	if err != nil {
		if notFound(err) {
			return false, nil
		}
		return false, err
	}
	res, err := el.Eval(`() => document.documentElement.contains(this)`)
	if err != nil {
		return false, fmt.Errorf("remote: attachment: %w", err)
	}
	return res.Value.Bool(), nil
}

// Text returns the element's text content.
func (h *Handle) Text(ctx context.Context) (string, error) {
	el, err := h.resolve(ctx)
	if err != nil {
		return "", err
	}
	res, err := el.Eval(`() => this.textContent || ""`)
	if err != nil {
		return "", fmt.Errorf("remote: text content: %w", err)
	}
	return res.Value.Str(), nil
}

// Attribute returns the named attribute's value and whether it is present.
func (h *Handle) Attribute(ctx context.Context, name string) (string, bool, error) {
	el, err := h.resolve(ctx)
	if err != nil {
		return "", false, err
	}
	v, err := el.Attribute(name)
	if err != nil {
		return "", false, fmt.Errorf("remote: attribute %s: %w", name, err)
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

// Click activates the element with a left-button click.
func (h *Handle) Click(ctx context.Context) error {
	el, err := h.resolve(ctx)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// Focus moves input focus to the element.
func (h *Handle) Focus(ctx context.Context) error {
	el, err := h.resolve(ctx)
	if err != nil {
		return err
	}
	return el.Focus()
}

// Type focuses the element and enters text into it.
func (h *Handle) Type(ctx context.Context, text string) error {
	el, err := h.resolve(ctx)
	if err != nil {
		return err
	}
	return el.Input(text)
}
