// Package aria resolves accessible names and descriptions and validates
// ARIA role/attribute structure. It works against a minimal read surface
// implemented by both substrates, so a screen-reader-oriented check runs
// identically in-process and over a browser channel.
package aria

import (
	"context"
	"fmt"
	"strings"
)

// Node is one element as seen by the resolver. Reads are ctx-based because
// the remote substrate answers over round-trips. ResolveID dereferences an
// id within the same document; LabelFor finds a label element whose for
// attribute references the given id.
type Node interface {
	Attr(ctx context.Context, name string) (string, bool, error)
	Attrs(ctx context.Context) (map[string]string, error)
	Text(ctx context.Context) (string, error)
	ResolveID(ctx context.Context, id string) (Node, bool, error)
	LabelFor(ctx context.Context, id string) (Node, bool, error)
}

// Name resolves the accessible name. The chain is evaluated in priority
// order until a non-empty result: aria-label, aria-labelledby dereferenced
// to the referenced elements' text, an associated label element's text, the
// element's own text content. An element with none of these has name "".
func Name(ctx context.Context, n Node) (string, error) {
	if label, ok, err := n.Attr(ctx, "aria-label"); err != nil {
		return "", fmt.Errorf("aria: name: %w", err)
	} else if ok {
		if v := strings.TrimSpace(label); v != "" {
			return v, nil
		}
	}

	if refs, ok, err := n.Attr(ctx, "aria-labelledby"); err != nil {
		return "", fmt.Errorf("aria: name: %w", err)
	} else if ok {
		text, err := derefText(ctx, n, refs)
		if err != nil {
			return "", fmt.Errorf("aria: name: %w", err)
		}
		if text != "" {
			return text, nil
		}
	}

	if id, ok, err := n.Attr(ctx, "id"); err != nil {
		return "", fmt.Errorf("aria: name: %w", err)
	} else if ok && id != "" {
		label, found, err := n.LabelFor(ctx, id)
		if err != nil {
			return "", fmt.Errorf("aria: name: %w", err)
		}
		if found {
			text, err := label.Text(ctx)
			if err != nil {
				return "", fmt.Errorf("aria: name: %w", err)
			}
			if v := strings.TrimSpace(text); v != "" {
				return v, nil
			}
		}
	}

	text, err := n.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("aria: name: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Description resolves the accessible description: aria-describedby
// dereferenced text, else the title attribute, else "".
func Description(ctx context.Context, n Node) (string, error) {
	if refs, ok, err := n.Attr(ctx, "aria-describedby"); err != nil {
		return "", fmt.Errorf("aria: description: %w", err)
	} else if ok {
		text, err := derefText(ctx, n, refs)
		if err != nil {
			return "", fmt.Errorf("aria: description: %w", err)
		}
		if text != "" {
			return text, nil
		}
	}

	if title, ok, err := n.Attr(ctx, "title"); err != nil {
		return "", fmt.Errorf("aria: description: %w", err)
	} else if ok {
		return strings.TrimSpace(title), nil
	}
	return "", nil
}

// implicitlyLive are the roles announced without an aria-live attribute.
var implicitlyLive = map[string]bool{
	"alert":   true,
	"status":  true,
	"log":     true,
	"marquee": true,
	"timer":   true,
}

// Announced reports whether assistive technology would announce changes to
// the element: aria-live present and not "off", or an implicitly live role.
func Announced(ctx context.Context, n Node) (bool, error) {
	if live, ok, err := n.Attr(ctx, "aria-live"); err != nil {
		return false, fmt.Errorf("aria: announced: %w", err)
	} else if ok && strings.ToLower(strings.TrimSpace(live)) != "off" {
		return true, nil
	}

	role, _, err := n.Attr(ctx, "role")
	if err != nil {
		return false, fmt.Errorf("aria: announced: %w", err)
	}
	return implicitlyLive[strings.ToLower(strings.TrimSpace(role))], nil
}

// derefText resolves a space-separated id reference list to the referenced
// elements' trimmed text, joined by single spaces. Unresolvable ids are
// skipped.
func derefText(ctx context.Context, n Node, refs string) (string, error) {
	var parts []string
	for _, id := range strings.Fields(refs) {
		ref, ok, err := n.ResolveID(ctx, id)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		text, err := ref.Text(ctx)
		if err != nil {
			return "", err
		}
		if v := strings.TrimSpace(text); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " "), nil
}
