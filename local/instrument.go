package local

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/veridom/veridom/dom"
	"github.com/veridom/veridom/instrument"
)

// MutationSource returns an instrument.Source feeding the document's
// mutations. Local delivery is synchronous with each mutating call, so
// records carry exact timestamps and nothing batches.
func (a *Adapter) MutationSource() instrument.Source {
	return &mutationSource{doc: a.doc}
}

type mutationSource struct {
	doc *dom.Document

	mu     sync.Mutex
	cancel func()
}

func (s *mutationSource) Start(_ context.Context, emit func(instrument.Mutation)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return errors.New("local: mutation source already started")
	}
	s.cancel = s.doc.Observe(func(m dom.Mutation) {
		emit(instrument.Mutation{
			Kind:      instrument.Kind(m.Kind),
			Tag:       m.Tag,
			Added:     m.Added,
			Removed:   m.Removed,
			Timestamp: m.Timestamp,
		})
	})
	return nil
}

func (s *mutationSource) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return errors.New("local: mutation source not started")
	}
	s.cancel()
	s.cancel = nil
	return nil
}

// Meter returns an instrument.Meter over the document. Memory is the Go
// heap in use, read from runtime statistics; it approximates the cost of
// the document plus everything else the process holds, which is the best a
// shared heap offers.
func (a *Adapter) Meter() instrument.Meter {
	return &meter{doc: a.doc}
}

type meter struct {
	doc *dom.Document
}

func (m *meter) Snapshot(context.Context) (instrument.Snapshot, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return instrument.Snapshot{
		Timestamp: time.Now(),
		Memory:    ms.HeapAlloc,
		Elements:  m.doc.ElementCount(),
		DOMBytes:  len(m.doc.OuterHTML()),
	}, nil
}
