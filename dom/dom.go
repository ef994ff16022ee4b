// Package dom implements the in-process document model backing the local
// substrate. It parses HTML into a live tree and layers the dynamic state a
// verification target needs on top of golang.org/x/net/html nodes: event
// listeners with bubbling dispatch, focus tracking, live input values, inline
// style edits, and mutation observation.
//
// The tree is owned by the test fixture; handles borrow it. All operations
// are safe for concurrent use through the owning Document's lock.
package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a live HTML document. It wraps the parsed node tree and carries
// the side state (listeners, focus, values, observers) that plain nodes
// cannot hold.
type Document struct {
	mu        sync.RWMutex
	root      *html.Node
	focused   *html.Node
	values    map[*html.Node]string
	listeners map[*html.Node]map[string][]handlerReg
	observers map[int]func(Mutation)
	nextID    int
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{
		root:      root,
		values:    make(map[*html.Node]string),
		listeners: make(map[*html.Node]map[string][]handlerReg),
		observers: make(map[int]func(Mutation)),
	}, nil
}

// ParseString reads an HTML document from a string. Fragments are accepted;
// the parser supplies the html/head/body scaffolding.
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// Root returns the document element (html).
func (d *Document) Root() *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.wrap(findFirstTag(d.root, "html"))
}

// Body returns the body element, or nil when the document has none.
func (d *Document) Body() *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.wrap(findFirstTag(d.root, "body"))
}

// Find returns the first element matching the CSS selector in document
// order, or nil when nothing matches. Invalid selectors match nothing.
func (d *Document) Find(selector string) *Element {
	all := d.FindAll(selector)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// FindAll returns every element matching the CSS selector in document order.
func (d *Document) FindAll(selector string) []*Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	sel := goquery.NewDocumentFromNode(d.root).Find(selector)
	out := make([]*Element, 0, len(sel.Nodes))
	for _, n := range sel.Nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

// ElementByID returns the element whose id attribute equals id, or nil.
func (d *Document) ElementByID(id string) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := attrValue(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return d.wrap(found)
}

// Active returns the currently focused element, or nil when focus is unset.
func (d *Document) Active() *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.wrap(d.focused)
}

// CreateElement returns a new detached element owned by this document.
// Attach it with AppendChild.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(tag)
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	return &Element{doc: d, node: n}
}

// ElementCount returns the number of element nodes in the document.
func (d *Document) ElementCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	count := 0
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			count++
		}
		return true
	})
	return count
}

// OuterHTML serializes the entire document.
func (d *Document) OuterHTML() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return render(d.root)
}

// wrap returns an Element for n, or nil when n is nil.
func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{doc: d, node: n}
}

// attached reports whether n is reachable from the document root.
// Callers hold d.mu.
func (d *Document) attached(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == d.root {
			return true
		}
	}
	return false
}

// walk visits n and its subtree in document order. Returning false from fn
// stops the walk.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func findFirstTag(root *html.Node, tag string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			found = n
			return false
		}
		return true
	})
	return found
}

func render(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

func attrValue(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func setAttrValue(n *html.Node, name, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttrValue(n *html.Node, name string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}
