package dom

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// ErrCrossDocument is returned when a tree operation mixes elements from
// different documents.
var ErrCrossDocument = errors.New("dom: elements belong to different documents")

// Element is a handle to one element node of a Document. Handles are cheap
// to create and carry no state of their own; two handles to the same node
// are interchangeable.
type Element struct {
	doc  *Document
	node *html.Node
}

// Node exposes the underlying parse-tree node.
func (e *Element) Node() *html.Node { return e.node }

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Tag returns the lowercased tag name.
func (e *Element) Tag() string { return strings.ToLower(e.node.Data) }

// ID returns the id attribute, or "".
func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

// Attr returns the named attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return attrValue(e.node, name)
}

// Attrs returns a copy of all attributes.
func (e *Element) Attrs() map[string]string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	out := make(map[string]string, len(e.node.Attr))
	for _, a := range e.node.Attr {
		out[a.Key] = a.Val
	}
	return out
}

// SetAttr sets an attribute and records an attribute mutation.
func (e *Element) SetAttr(name, value string) {
	d := e.doc
	d.mu.Lock()
	old, _ := attrValue(e.node, name)
	setAttrValue(e.node, name, value)
	d.mu.Unlock()

	d.notify(Mutation{
		Kind:     KindAttributes,
		Tag:      e.Tag(),
		Attr:     name,
		OldValue: old,
		NewValue: value,
	})
}

// RemoveAttr removes an attribute. Removing an absent attribute records no
// mutation.
func (e *Element) RemoveAttr(name string) {
	d := e.doc
	d.mu.Lock()
	old, had := attrValue(e.node, name)
	if !had {
		d.mu.Unlock()
		return
	}
	removeAttrValue(e.node, name)
	d.mu.Unlock()

	d.notify(Mutation{
		Kind:     KindAttributes,
		Tag:      e.Tag(),
		Attr:     name,
		OldValue: old,
	})
}

// Classes returns the class attribute split into tokens.
func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

// HasClass reports whether the class attribute contains the token.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// Text returns the concatenated text content of the element's subtree.
func (e *Element) Text() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return textContent(e.node)
}

// SetText replaces the element's children with a single text node and
// records a characterData mutation carrying old and new text.
func (e *Element) SetText(text string) {
	d := e.doc
	d.mu.Lock()
	old := textContent(e.node)
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	d.mu.Unlock()

	d.notify(Mutation{
		Kind:     KindCharacterData,
		Tag:      e.Tag(),
		OldValue: old,
		NewValue: text,
	})
}

// AppendChild attaches child as the element's last child, detaching it from
// any previous parent first. It records a childList mutation on the parent.
func (e *Element) AppendChild(child *Element) error {
	if child.doc != e.doc {
		return ErrCrossDocument
	}
	d := e.doc
	d.mu.Lock()
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
	d.mu.Unlock()

	d.notify(Mutation{
		Kind:  KindChildList,
		Tag:   e.Tag(),
		Added: 1,
	})
	return nil
}

// Remove detaches the element from its parent. Removing a detached element
// records no mutation.
func (e *Element) Remove() {
	d := e.doc
	d.mu.Lock()
	parent := e.node.Parent
	if parent == nil {
		d.mu.Unlock()
		return
	}
	parentTag := strings.ToLower(parent.Data)
	parent.RemoveChild(e.node)
	if d.focused == e.node {
		d.focused = nil
	}
	d.mu.Unlock()

	d.notify(Mutation{
		Kind:    KindChildList,
		Tag:     parentTag,
		Removed: 1,
	})
}

// Attached reports whether the element is reachable from the document root.
func (e *Element) Attached() bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.doc.attached(e.node)
}

// Same reports whether both handles refer to one node.
func (e *Element) Same(other *Element) bool {
	return other != nil && e.node == other.node
}

// Contains reports whether other lies strictly within the element's subtree.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	for cur := other.node.Parent; cur != nil; cur = cur.Parent {
		if cur == e.node {
			return true
		}
	}
	return false
}

// Parent returns the parent element, skipping non-element ancestors, or nil.
func (e *Element) Parent() *Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	for cur := e.node.Parent; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode {
			return e.doc.wrap(cur)
		}
	}
	return nil
}

// Children returns the element's child elements in order.
func (e *Element) Children() []*Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// Value returns the element's live value: the last SetValue result, falling
// back to the value attribute.
func (e *Element) Value() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	if v, ok := e.doc.values[e.node]; ok {
		return v
	}
	v, _ := attrValue(e.node, "value")
	return v
}

// SetValue replaces the element's live value and dispatches a bubbling input
// event. Like the browser's value property, this does not touch the value
// attribute and records no mutation.
func (e *Element) SetValue(v string) {
	d := e.doc
	d.mu.Lock()
	d.values[e.node] = v
	d.mu.Unlock()

	e.Dispatch(&Event{Type: "input", Bubbles: true, Data: v})
}

// OuterHTML serializes the element and its subtree.
func (e *Element) OuterHTML() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return render(e.node)
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}
