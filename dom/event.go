package dom

import "golang.org/x/net/html"

// Event is a synthetic document event. Interaction helpers populate Key and
// Mods for keyboard events and Data for drag transfer payloads.
type Event struct {
	Type    string
	Target  *Element
	Key     string   // key name, for keyboard events
	Mods    []string // active modifier names, for keyboard events
	Data    string   // transfer payload, for drag events
	Bubbles bool

	stopped          bool
	defaultPrevented bool
}

// StopPropagation prevents the event from reaching ancestor listeners.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Handler receives a dispatched event.
type Handler func(*Event)

type handlerReg struct {
	id int
	fn Handler
}

// On registers a handler for the given event type on the element. The
// returned remove function unregisters it; safe to call more than once.
func (e *Element) On(eventType string, fn Handler) (remove func()) {
	d := e.doc
	d.mu.Lock()
	byType := d.listeners[e.node]
	if byType == nil {
		byType = make(map[string][]handlerReg)
		d.listeners[e.node] = byType
	}
	id := d.nextID
	d.nextID++
	byType[eventType] = append(byType[eventType], handlerReg{id: id, fn: fn})
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		regs := d.listeners[e.node][eventType]
		for i, reg := range regs {
			if reg.id == id {
				d.listeners[e.node][eventType] = append(regs[:i], regs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers ev to the element's listeners, then, when ev.Bubbles is
// set, to each ancestor's listeners in turn until stopped.
func (e *Element) Dispatch(ev *Event) {
	if ev.Target == nil {
		ev.Target = e
	}
	d := e.doc

	// Snapshot the propagation path and handler chain before invoking
	// anything: handlers may mutate the tree or the listener table.
	d.mu.RLock()
	path := []*html.Node{e.node}
	if ev.Bubbles {
		for cur := e.node.Parent; cur != nil; cur = cur.Parent {
			path = append(path, cur)
		}
	}
	chain := make([][]Handler, 0, len(path))
	for _, n := range path {
		regs := d.listeners[n][ev.Type]
		fns := make([]Handler, 0, len(regs))
		for _, reg := range regs {
			fns = append(fns, reg.fn)
		}
		chain = append(chain, fns)
	}
	d.mu.RUnlock()

	for _, fns := range chain {
		for _, fn := range fns {
			fn(ev)
		}
		if ev.stopped {
			return
		}
	}
}

// Click dispatches a bubbling click event on the element.
func (e *Element) Click() {
	e.Dispatch(&Event{Type: "click", Bubbles: true})
}

// Focus moves document focus to the element. The previous holder receives a
// blur event, then the element receives a focus event. Neither bubbles.
func (e *Element) Focus() {
	d := e.doc
	d.mu.Lock()
	prev := d.focused
	if prev == e.node {
		d.mu.Unlock()
		return
	}
	d.focused = e.node
	d.mu.Unlock()

	if prev != nil {
		d.wrap(prev).Dispatch(&Event{Type: "blur"})
	}
	e.Dispatch(&Event{Type: "focus"})
}

// Blur clears focus if the element currently holds it.
func (e *Element) Blur() {
	d := e.doc
	d.mu.Lock()
	if d.focused != e.node {
		d.mu.Unlock()
		return
	}
	d.focused = nil
	d.mu.Unlock()

	e.Dispatch(&Event{Type: "blur"})
}
