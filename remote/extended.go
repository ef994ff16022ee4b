package remote

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"

	"github.com/veridom/veridom/probe"
)

// The extended operation set is remote-exclusive: it needs a compositor,
// a pointer, and a pixel surface, none of which the local model has.

// Hover moves the pointer over the element.
func (h *Handle) Hover(ctx context.Context) error {
	el, err := h.resolve(ctx)
	if err != nil {
		return err
	}
	return el.Hover()
}

// Box returns the element's bounding box in page coordinates.
func (h *Handle) Box(ctx context.Context) (probe.Box, error) {
	el, err := h.resolve(ctx)
	if err != nil {
		return probe.Box{}, err
	}
	shape, err := el.Shape()
	if err != nil {
		return probe.Box{}, fmt.Errorf("remote: bounding box: %w", err)
	}
	box := shape.Box()
	if box == nil {
		return probe.Box{}, fmt.Errorf("remote: bounding box: element is not rendered")
	}
	return probe.Box{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

// Screenshot captures the element as a PNG.
func (h *Handle) Screenshot(ctx context.Context) ([]byte, error) {
	el, err := h.resolve(ctx)
	if err != nil {
		return nil, err
	}
	png, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("remote: screenshot: %w", err)
	}
	return png, nil
}

// ScrollIntoView scrolls the element into the viewport.
func (h *Handle) ScrollIntoView(ctx context.Context) error {
	el, err := h.resolve(ctx)
	if err != nil {
		return err
	}
	return el.ScrollIntoView()
}

// StyleProperty returns one computed style property's resolved value.
func (h *Handle) StyleProperty(ctx context.Context, name string) (string, error) {
	el, err := h.resolve(ctx)
	if err != nil {
		return "", err
	}
	res, err := el.Eval(`(name) => window.getComputedStyle(this).getPropertyValue(name)`, name)
	if err != nil {
		return "", fmt.Errorf("remote: computed style %s: %w", name, err)
	}
	return res.Value.Str(), nil
}
