// Package probe defines the environment-polymorphic element contract: the
// minimal capability set every element handle supports, the lookup criteria,
// and the assertion vocabulary built on top. Callers never need to know which
// substrate they are testing against: the contract is defined in terms of
// outcomes ("is visible"), not mechanisms ("has a non-zero layout box").
//
// Two substrate adapters implement the contract: package local wraps an
// in-process document, package remote wraps a browser-automation channel.
package probe

import (
	"context"
	"time"
)

// Substrate identifies the execution environment backing an element handle.
// It is assigned at construction and never changes.
type Substrate int

const (
	// SubstrateLocal is the in-process, synchronously-readable document model.
	SubstrateLocal Substrate = iota
	// SubstrateRemote is the remote, asynchronously-polled automation channel.
	SubstrateRemote
)

// String returns the substrate name used in logs and error messages.
func (s Substrate) String() string {
	switch s {
	case SubstrateLocal:
		return "local"
	case SubstrateRemote:
		return "remote"
	}
	return "unknown"
}

// Handle is the capability contract. Every operation takes a context and may
// suspend: the local substrate completes synchronously but keeps the same
// signatures for contract uniformity, the remote substrate genuinely blocks
// on network round-trips and the channel's built-in polling.
//
// Visibility is computed from style alone (display not none, visibility not
// hidden, opacity not zero) on both substrates. Layout box dimensions are
// deliberately ignored: the lightweight local substrate has no layout engine,
// and the contract must produce the same answer everywhere.
type Handle interface {
	// Substrate reports which environment backs this handle.
	Substrate() Substrate

	// Visible reports whether the element is shown according to its style.
	Visible(ctx context.Context) (bool, error)

	// Attached reports whether the element is still part of its document.
	Attached(ctx context.Context) (bool, error)

	// Text returns the element's text content (descendant text concatenated).
	Text(ctx context.Context) (string, error)

	// Attribute returns the named attribute's value and whether it is present.
	Attribute(ctx context.Context, name string) (string, bool, error)

	// Click activates the element.
	Click(ctx context.Context) error

	// Focus moves input focus to the element.
	Focus(ctx context.Context) error

	// Type enters text into the element.
	Type(ctx context.Context, text string) error
}

// Modifier is a keyboard modifier held during a key press.
type Modifier string

const (
	ModShift   Modifier = "Shift"
	ModControl Modifier = "Control"
	ModAlt     Modifier = "Alt"
	ModMeta    Modifier = "Meta"
)

// Interactor is the raw interaction surface both substrates provide. The
// interact package builds the composite keyboard/drag vocabulary on it.
type Interactor interface {
	// PressKey dispatches one key press with the given modifiers held. The
	// local substrate emits a keydown/keyup pair carrying modifier flags, the
	// remote substrate sends a single press command with modifiers held.
	PressKey(ctx context.Context, key string, mods ...Modifier) error

	// DragTo drags this element onto the target element.
	DragTo(ctx context.Context, target Handle, opts DragOptions) error
}

// Position names an anchor point within an element's box, used to refine
// where a drag grabs or releases.
type Position string

const (
	PosCenter      Position = "center"
	PosTopLeft     Position = "top-left"
	PosTop         Position = "top"
	PosTopRight    Position = "top-right"
	PosLeft        Position = "left"
	PosRight       Position = "right"
	PosBottomLeft  Position = "bottom-left"
	PosBottom      Position = "bottom"
	PosBottomRight Position = "bottom-right"
)

// Offset returns the anchor as fractions of width and height. Unknown
// positions resolve to the center.
func (p Position) Offset() (fx, fy float64) {
	switch p {
	case PosTopLeft:
		return 0, 0
	case PosTop:
		return 0.5, 0
	case PosTopRight:
		return 1, 0
	case PosLeft:
		return 0, 0.5
	case PosRight:
		return 1, 0.5
	case PosBottomLeft:
		return 0, 1
	case PosBottom:
		return 0.5, 1
	case PosBottomRight:
		return 1, 1
	}
	return 0.5, 0.5
}

// DragOptions tunes a drag gesture. The zero value drags center-to-center
// with the substrate's default timing.
type DragOptions struct {
	// SourcePosition anchors where the drag grabs the source element.
	SourcePosition Position
	// TargetPosition anchors where the drag releases over the target.
	TargetPosition Position
	// Force is the pointer pressure forwarded to the remote channel.
	// The local synthetic event sequence has no pressure axis; it ignores it.
	Force float64
	// Timeout bounds the whole gesture. Zero means the adapter default.
	Timeout time.Duration
	// Payload is the transfer payload carried by the synthetic local drag
	// sequence (dataTransfer text). Ignored by the remote substrate.
	Payload string
}

// Box is an element's bounding box in page coordinates.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Extended is the substrate-exclusive operation set. Only the remote adapter
// implements it: the lightweight local model has no compositor, pointer, or
// pixel surface. Invoking these through an Assertion on a handle that does
// not implement Extended fails with an UnsupportedError, never a silent no-op.
type Extended interface {
	// Hover moves the pointer over the element.
	Hover(ctx context.Context) error

	// Box returns the element's bounding box.
	Box(ctx context.Context) (Box, error)

	// Screenshot captures the element as a PNG.
	Screenshot(ctx context.Context) ([]byte, error)

	// ScrollIntoView scrolls the element into the viewport.
	ScrollIntoView(ctx context.Context) error

	// StyleProperty returns one computed style property's value.
	StyleProperty(ctx context.Context, name string) (string, error)

	// DragToCoordinates drags the element to absolute page coordinates.
	DragToCoordinates(ctx context.Context, x, y float64, opts DragOptions) error
}
