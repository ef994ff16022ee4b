package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"

	"github.com/veridom/veridom/aria"
	"github.com/veridom/veridom/probe"
)

// Attr implements aria.Node.
func (h *Handle) Attr(ctx context.Context, name string) (string, bool, error) {
	return h.Attribute(ctx, name)
}

const jsAttrs = `() => {
	const out = {};
	for (const a of this.attributes) out[a.name] = a.value;
	return out;
}`

// Attrs implements aria.Node.
func (h *Handle) Attrs(ctx context.Context) (map[string]string, error) {
	el, err := h.resolve(ctx)
	if err != nil {
		return nil, err
	}
	res, err := el.Eval(jsAttrs)
	if err != nil {
		return nil, fmt.Errorf("remote: attributes: %w", err)
	}
	out := make(map[string]string)
	for name, v := range res.Value.Map() {
		out[name] = v.Str()
	}
	return out, nil
}

// ResolveID dereferences an id within the same document. A dangling
// reference answers immediately instead of waiting out the resolve window.
func (h *Handle) ResolveID(ctx context.Context, id string) (aria.Node, bool, error) {
	return h.pinned(ctx, probe.ByID(id))
}

// LabelFor finds a label element whose for attribute references id.
func (h *Handle) LabelFor(ctx context.Context, id string) (aria.Node, bool, error) {
	by := probe.BySelector("label" + probe.AttrSelector("for", id))
	return h.pinned(ctx, by)
}

// pinned resolves by without retrying and wraps the match, if any, in a
// handle bound to that exact element.
func (h *Handle) pinned(ctx context.Context, by probe.By) (aria.Node, bool, error) {
	sel, _ := by.Selector()
	el, err := h.ad.page.Context(ctx).Sleeper(rod.NotFoundSleeper).Element(sel)
	if err != nil {
		if errors.Is(err, &rod.ErrElementNotFound{}) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("remote: resolve %s: %w", by, err)
	}
	return &Handle{ad: h.ad, by: by, el: el}, true, nil
}
