package dom

import "time"

// Kind is the type of document mutation observed. Values match the DOM
// MutationRecord type names so both substrates report the same literals.
type Kind string

const (
	KindChildList     Kind = "childList"     // nodes added or removed
	KindAttributes    Kind = "attributes"    // attribute set or removed
	KindCharacterData Kind = "characterData" // text content changed
)

// Mutation is a single observed document change.
type Mutation struct {
	Kind      Kind
	Tag       string // lowercased tag of the target element
	Attr      string // attribute name, for attribute mutations
	OldValue  string
	NewValue  string
	Added     int // nodes added, for childList mutations
	Removed   int // nodes removed, for childList mutations
	Timestamp time.Time
}

// Observe registers fn to receive every subsequent mutation of the document.
// Delivery is synchronous with the mutating call. The returned cancel
// function unregisters fn; it is safe to call more than once.
func (d *Document) Observe(fn func(Mutation)) (cancel func()) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.observers[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.observers, id)
		d.mu.Unlock()
	}
}

// notify delivers m to every registered observer. It must be called without
// d.mu held: observers are free to read the document.
func (d *Document) notify(m Mutation) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}

	d.mu.RLock()
	fns := make([]func(Mutation), 0, len(d.observers))
	for _, fn := range d.observers {
		fns = append(fns, fn)
	}
	d.mu.RUnlock()

	for _, fn := range fns {
		fn(m)
	}
}
