package local

import (
	"context"

	"github.com/veridom/veridom/aria"
)

// Attr implements aria.Node.
func (h *Handle) Attr(_ context.Context, name string) (string, bool, error) {
	v, ok := h.el.Attr(name)
	return v, ok, nil
}

// Attrs implements aria.Node.
func (h *Handle) Attrs(context.Context) (map[string]string, error) {
	return h.el.Attrs(), nil
}

// ResolveID dereferences an id within the same document.
func (h *Handle) ResolveID(_ context.Context, id string) (aria.Node, bool, error) {
	el := h.ad.doc.ElementByID(id)
	if el == nil {
		return nil, false, nil
	}
	return &Handle{ad: h.ad, el: el}, true, nil
}

// LabelFor finds a label element whose for attribute references id.
func (h *Handle) LabelFor(_ context.Context, id string) (aria.Node, bool, error) {
	for _, label := range h.ad.doc.FindAll("label") {
		if forID, ok := label.Attr("for"); ok && forID == id {
			return &Handle{ad: h.ad, el: label}, true, nil
		}
	}
	return nil, false, nil
}
