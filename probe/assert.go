package probe

import (
	"context"
	"fmt"
	"strings"
)

// FailHandler receives every assertion failure before it is returned. It is
// the hook for the ambient test runner (t.Fatal, a recorder) and is
// resolved at construction; the core holds no global failure state.
type FailHandler func(error)

// Option configures an Assertion at construction.
type Option func(*Assertion)

// WithFailHandler installs the injected failure primitive. A nil handler
// means failures are only returned as errors.
func WithFailHandler(fn FailHandler) Option {
	return func(a *Assertion) { a.onFail = fn }
}

// Assertion pairs a substrate tag with an element handle and exposes the
// assertion vocabulary over the capability contract. Wrappers are created
// fresh per lookup and discarded after use; they hold no state beyond the
// pair and are never cached or compared.
type Assertion struct {
	handle    Handle
	substrate Substrate
	onFail    FailHandler
}

// NewAssertion wraps a handle. The substrate tag is read from the handle once
// and never mutates.
func NewAssertion(h Handle, opts ...Option) *Assertion {
	a := &Assertion{handle: h, substrate: h.Substrate()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Handle returns the wrapped element handle.
func (a *Assertion) Handle() Handle { return a.handle }

// Substrate reports the environment backing the wrapped handle.
func (a *Assertion) Substrate() Substrate { return a.substrate }

// fail routes an assertion error through the injected handler, then returns it.
func (a *Assertion) fail(err error) error {
	if a.onFail != nil {
		a.onFail(err)
	}
	return err
}

// --- visibility ---

// ToBeVisible passes when the element's style shows it.
func (a *Assertion) ToBeVisible(ctx context.Context) error {
	visible, err := a.handle.Visible(ctx)
	if err != nil {
		return a.fail(fmt.Errorf("probe: ToBeVisible: %w", err))
	}
	if !visible {
		return a.fail(&MismatchError{Assertion: "ToBeVisible", Expected: "a visible element", Actual: "a hidden element"})
	}
	return nil
}

// ToBeHidden passes when the element's style hides it.
func (a *Assertion) ToBeHidden(ctx context.Context) error {
	visible, err := a.handle.Visible(ctx)
	if err != nil {
		return a.fail(fmt.Errorf("probe: ToBeHidden: %w", err))
	}
	if visible {
		return a.fail(&MismatchError{Assertion: "ToBeHidden", Expected: "a hidden element", Actual: "a visible element"})
	}
	return nil
}

// --- attachment ---

// ToBeInDocument passes when the element is attached to its document.
func (a *Assertion) ToBeInDocument(ctx context.Context) error {
	attached, err := a.handle.Attached(ctx)
	if err != nil {
		return a.fail(fmt.Errorf("probe: ToBeInDocument: %w", err))
	}
	if !attached {
		return a.fail(&MismatchError{Assertion: "ToBeInDocument", Expected: "an attached element", Actual: "a detached element"})
	}
	return nil
}

// NotToBeInDocument passes when the element is no longer attached.
func (a *Assertion) NotToBeInDocument(ctx context.Context) error {
	attached, err := a.handle.Attached(ctx)
	if err != nil {
		return a.fail(fmt.Errorf("probe: NotToBeInDocument: %w", err))
	}
	if attached {
		return a.fail(&MismatchError{Assertion: "NotToBeInDocument", Expected: "a detached element", Actual: "an attached element"})
	}
	return nil
}

// --- attributes ---

// ToHaveAttribute passes when the attribute is present. When a value is
// given it must literally equal the attribute's value.
func (a *Assertion) ToHaveAttribute(ctx context.Context, name string, value ...string) error {
	got, ok, err := a.handle.Attribute(ctx, name)
	if err != nil {
		return a.fail(fmt.Errorf("probe: ToHaveAttribute: %w", err))
	}
	if !ok {
		return a.fail(&MismatchError{
			Assertion: "ToHaveAttribute",
			Expected:  fmt.Sprintf("attribute %q present", name),
			Actual:    fmt.Sprintf("attribute %q absent", name),
		})
	}
	if len(value) > 0 && got != value[0] {
		return a.fail(&MismatchError{
			Assertion: "ToHaveAttribute",
			Expected:  fmt.Sprintf("%s=%q", name, value[0]),
			Actual:    fmt.Sprintf("%s=%q", name, got),
		})
	}
	return nil
}

// NotToHaveAttribute passes when the attribute is absent.
func (a *Assertion) NotToHaveAttribute(ctx context.Context, name string) error {
	got, ok, err := a.handle.Attribute(ctx, name)
	if err != nil {
		return a.fail(fmt.Errorf("probe: NotToHaveAttribute: %w", err))
	}
	if ok {
		return a.fail(&MismatchError{
			Assertion: "NotToHaveAttribute",
			Expected:  fmt.Sprintf("attribute %q absent", name),
			Actual:    fmt.Sprintf("%s=%q", name, got),
		})
	}
	return nil
}

// --- text ---

// ToHaveTextContent passes when the element's text content equals the
// expected string. Surrounding whitespace is ignored on both sides.
func (a *Assertion) ToHaveTextContent(ctx context.Context, exact string) error {
	text, err := a.handle.Text(ctx)
	if err != nil {
		return a.fail(fmt.Errorf("probe: ToHaveTextContent: %w", err))
	}
	if strings.TrimSpace(text) != strings.TrimSpace(exact) {
		return a.fail(&MismatchError{
			Assertion: "ToHaveTextContent",
			Expected:  fmt.Sprintf("text %q", exact),
			Actual:    fmt.Sprintf("text %q", strings.TrimSpace(text)),
		})
	}
	return nil
}

// ToContainText passes when the element's text content contains the substring.
func (a *Assertion) ToContainText(ctx context.Context, substring string) error {
	text, err := a.handle.Text(ctx)
	if err != nil {
		return a.fail(fmt.Errorf("probe: ToContainText: %w", err))
	}
	if !strings.Contains(text, substring) {
		return a.fail(&MismatchError{
			Assertion: "ToContainText",
			Expected:  fmt.Sprintf("text containing %q", substring),
			Actual:    fmt.Sprintf("text %q", strings.TrimSpace(text)),
		})
	}
	return nil
}

// --- class and role ---

// ToHaveClass passes when the element carries every listed class token.
func (a *Assertion) ToHaveClass(ctx context.Context, classes ...string) error {
	got, _, err := a.handle.Attribute(ctx, "class")
	if err != nil {
		return a.fail(fmt.Errorf("probe: ToHaveClass: %w", err))
	}
	have := make(map[string]bool)
	for _, c := range strings.Fields(got) {
		have[c] = true
	}
	for _, want := range classes {
		if !have[want] {
			return a.fail(&MismatchError{
				Assertion: "ToHaveClass",
				Expected:  fmt.Sprintf("class %q", want),
				Actual:    fmt.Sprintf("class attribute %q", got),
			})
		}
	}
	return nil
}

// ToHaveRole passes when the element's explicit role attribute equals role.
// Implicit element roles are not resolved; the predicate reads exactly one
// attribute, like every other assertion.
func (a *Assertion) ToHaveRole(ctx context.Context, role string) error {
	got, ok, err := a.handle.Attribute(ctx, "role")
	if err != nil {
		return a.fail(fmt.Errorf("probe: ToHaveRole: %w", err))
	}
	if !ok || got != role {
		actual := "no role attribute"
		if ok {
			actual = fmt.Sprintf("role %q", got)
		}
		return a.fail(&MismatchError{
			Assertion: "ToHaveRole",
			Expected:  fmt.Sprintf("role %q", role),
			Actual:    actual,
		})
	}
	return nil
}

// --- capability passthroughs ---

// Click activates the wrapped element.
func (a *Assertion) Click(ctx context.Context) error { return a.handle.Click(ctx) }

// Focus moves input focus to the wrapped element.
func (a *Assertion) Focus(ctx context.Context) error { return a.handle.Focus(ctx) }

// Type enters text into the wrapped element.
func (a *Assertion) Type(ctx context.Context, text string) error {
	return a.handle.Type(ctx, text)
}

// Text returns the wrapped element's text content.
func (a *Assertion) Text(ctx context.Context) (string, error) { return a.handle.Text(ctx) }

// --- substrate-exclusive passthroughs ---

// extended upgrades the handle to the Extended operation set, or reports the
// operation as unsupported on this substrate.
func (a *Assertion) extended(op string) (Extended, error) {
	if ext, ok := a.handle.(Extended); ok {
		return ext, nil
	}
	return nil, &UnsupportedError{Op: op, Substrate: a.substrate}
}

// Hover moves the pointer over the element. Remote substrate only.
func (a *Assertion) Hover(ctx context.Context) error {
	ext, err := a.extended("hover")
	if err != nil {
		return a.fail(err)
	}
	return ext.Hover(ctx)
}

// Box returns the element's bounding box. Remote substrate only.
func (a *Assertion) Box(ctx context.Context) (Box, error) {
	ext, err := a.extended("bounding box")
	if err != nil {
		return Box{}, a.fail(err)
	}
	return ext.Box(ctx)
}

// Screenshot captures the element as a PNG. Remote substrate only.
func (a *Assertion) Screenshot(ctx context.Context) ([]byte, error) {
	ext, err := a.extended("screenshot")
	if err != nil {
		return nil, a.fail(err)
	}
	return ext.Screenshot(ctx)
}

// ScrollIntoView scrolls the element into the viewport. Remote substrate only.
func (a *Assertion) ScrollIntoView(ctx context.Context) error {
	ext, err := a.extended("scroll into view")
	if err != nil {
		return a.fail(err)
	}
	return ext.ScrollIntoView(ctx)
}

// StyleProperty returns one computed style property. Remote substrate only.
func (a *Assertion) StyleProperty(ctx context.Context, name string) (string, error) {
	ext, err := a.extended("computed style")
	if err != nil {
		return "", a.fail(err)
	}
	return ext.StyleProperty(ctx, name)
}

// DragToCoordinates drags the element to absolute page coordinates. Remote
// substrate only: the local substrate has no coordinate space.
func (a *Assertion) DragToCoordinates(ctx context.Context, x, y float64, opts DragOptions) error {
	ext, err := a.extended("drag to coordinates")
	if err != nil {
		return a.fail(err)
	}
	return ext.DragToCoordinates(ctx, x, y, opts)
}
