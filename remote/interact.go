package remote

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod/lib/proto"

	"github.com/veridom/veridom/probe"
)

// dragSteps is how many interpolated pointer moves a drag gesture emits
// between press and release.
const dragSteps = 12

// PressKey dispatches one key press with the given modifiers held. The press
// travels the channel as a down/up pair that carries the modifier bitmask,
// so shortcut handlers see the modifiers without separate modifier events.
func (h *Handle) PressKey(ctx context.Context, key string, mods ...probe.Modifier) error {
	el, err := h.resolve(ctx)
	if err != nil {
		return err
	}
	if err := el.Focus(); err != nil {
		return fmt.Errorf("remote: focus before press: %w", err)
	}

	bits := modifierBits(mods)
	id := keyFor(key)

	text := id.Text
	if bits&(modControl|modAlt|modMeta) != 0 {
		// Shortcut modifiers suppress text insertion.
		text = ""
	} else if bits&modShift != 0 && len([]rune(text)) == 1 {
		text = strings.ToUpper(text)
	}

	page := h.ad.page.Context(ctx)
	down := proto.InputDispatchKeyEvent{
		Type:                  proto.InputDispatchKeyEventTypeKeyDown,
		Modifiers:             bits,
		Key:                   id.Key,
		Code:                  id.Code,
		WindowsVirtualKeyCode: id.VK,
		Text:                  text,
	}
	if err := down.Call(page); err != nil {
		return fmt.Errorf("remote: key down %q: %w", key, err)
	}
	up := proto.InputDispatchKeyEvent{
		Type:                  proto.InputDispatchKeyEventTypeKeyUp,
		Modifiers:             bits,
		Key:                   id.Key,
		Code:                  id.Code,
		WindowsVirtualKeyCode: id.VK,
	}
	if err := up.Call(page); err != nil {
		return fmt.Errorf("remote: key up %q: %w", key, err)
	}
	return nil
}

// DragTo drags the element onto target with a pointer press, interpolated
// moves, and a release. The target must expose a bounding box, so it has to
// live on a substrate with a layout surface.
func (h *Handle) DragTo(ctx context.Context, target probe.Handle, opts probe.DragOptions) error {
	ext, ok := target.(probe.Extended)
	if !ok {
		return &probe.UnsupportedError{Op: "drag target box", Substrate: target.Substrate()}
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	box, err := ext.Box(ctx)
	if err != nil {
		return fmt.Errorf("remote: drag target box: %w", err)
	}
	toX, toY := anchorPoint(box, opts.TargetPosition)
	return h.dragToPoint(ctx, toX, toY, opts)
}

// DragToCoordinates drags the element to absolute page coordinates.
func (h *Handle) DragToCoordinates(ctx context.Context, x, y float64, opts probe.DragOptions) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	return h.dragToPoint(ctx, x, y, opts)
}

// dragToPoint presses on the source anchor, walks the pointer along an
// interpolated path, and releases at the destination.
func (h *Handle) dragToPoint(ctx context.Context, toX, toY float64, opts probe.DragOptions) error {
	el, err := h.resolve(ctx)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("remote: drag scroll: %w", err)
	}
	shape, err := el.Shape()
	if err != nil {
		return fmt.Errorf("remote: drag source box: %w", err)
	}
	b := shape.Box()
	if b == nil {
		return fmt.Errorf("remote: drag source box: element is not rendered")
	}
	fromX, fromY := anchorPoint(probe.Box{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}, opts.SourcePosition)

	page := h.ad.page.Context(ctx)
	move := func(x, y float64) error {
		return proto.InputDispatchMouseEvent{
			Type:   proto.InputDispatchMouseEventTypeMouseMoved,
			X:      x,
			Y:      y,
			Button: proto.InputMouseButtonLeft,
		}.Call(page)
	}

	if err := move(fromX, fromY); err != nil {
		return fmt.Errorf("remote: drag move: %w", err)
	}
	press := proto.InputDispatchMouseEvent{
		Type:       proto.InputDispatchMouseEventTypeMousePressed,
		X:          fromX,
		Y:          fromY,
		Button:     proto.InputMouseButtonLeft,
		ClickCount: 1,
		Force:      opts.Force,
	}
	if err := press.Call(page); err != nil {
		return fmt.Errorf("remote: drag press: %w", err)
	}
	for _, p := range dragPath(fromX, fromY, toX, toY, dragSteps) {
		if err := move(p[0], p[1]); err != nil {
			return fmt.Errorf("remote: drag move: %w", err)
		}
	}
	release := proto.InputDispatchMouseEvent{
		Type:       proto.InputDispatchMouseEventTypeMouseReleased,
		X:          toX,
		Y:          toY,
		Button:     proto.InputMouseButtonLeft,
		ClickCount: 1,
		Force:      opts.Force,
	}
	if err := release.Call(page); err != nil {
		return fmt.Errorf("remote: drag release: %w", err)
	}
	return nil
}

// anchorPoint resolves a position within a box to page coordinates.
func anchorPoint(box probe.Box, pos probe.Position) (x, y float64) {
	fx, fy := pos.Offset()
	return box.X + box.Width*fx, box.Y + box.Height*fy
}

// dragPath interpolates steps points from the source to the destination,
// destination included, source excluded.
func dragPath(fromX, fromY, toX, toY float64, steps int) [][2]float64 {
	if steps < 1 {
		steps = 1
	}
	path := make([][2]float64, 0, steps)
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps)
		path = append(path, [2]float64{fromX + (toX-fromX)*f, fromY + (toY-fromY)*f})
	}
	return path
}
