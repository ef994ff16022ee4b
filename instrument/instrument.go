// Package instrument measures how a document behaves while a test exercises
// it: mutation tracking, render timing, performance scoring, and a memory
// leak heuristic.
//
// The engine is substrate-neutral. It consumes two small interfaces, Source
// and Meter, implemented by both the local and the remote adapters, so that
// one test produces comparable numbers against either environment. Rate
// metrics are approximate: sources may deliver mutations batched, so a
// mid-session count can lag real time by up to one flush window.
package instrument

import (
	"context"
	"time"
)

// Kind is the type of document mutation observed. Values match the DOM
// MutationRecord type names so both substrates report the same literals.
type Kind string

const (
	KindChildList     Kind = "childList"
	KindAttributes    Kind = "attributes"
	KindCharacterData Kind = "characterData"
)

// Mutation is one observed document change, as delivered by a Source.
type Mutation struct {
	Kind      Kind
	Tag       string // lowercased tag of the target element
	Added     int    // nodes added, for childList mutations
	Removed   int    // nodes removed, for childList mutations
	Timestamp time.Time
}

// Source is a feed of document mutations. Start registers the observer and
// must deliver every subsequent mutation to emit until Stop; emit may be
// called from any goroutine. Stop flushes whatever the source has buffered
// before returning.
type Source interface {
	Start(ctx context.Context, emit func(Mutation)) error
	Stop(ctx context.Context) error
}

// Snapshot is one point-in-time reading of the document's resource state.
// Memory is best effort: a substrate without a usable heap API reports zero
// rather than failing.
type Snapshot struct {
	Timestamp time.Time
	Memory    uint64 // heap bytes in use, best effort
	Elements  int    // element nodes in the document
	DOMBytes  int    // serialized document size
}

// Meter produces resource snapshots for one document.
type Meter interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}
