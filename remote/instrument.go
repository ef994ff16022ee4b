package remote

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/veridom/veridom/instrument"
)

//go:embed observer.js
var observerJS []byte

const (
	jsDrainMutations = `() => window.__veridom ? window.__veridom.drain() : []`
	jsStopObserver   = `() => { if (window.__veridom) window.__veridom.stop(); }`
)

// MutationSource returns an instrument.Source observing the page through an
// injected MutationObserver. Records buffer page-side and drain on the
// session's flush interval, so delivery may lag the document by up to one
// window. Timestamps are page clock readings taken at observation time.
func (a *Adapter) MutationSource() instrument.Source {
	return &mutationSource{ad: a}
}

type mutationSource struct {
	ad *Adapter

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	emit   func(instrument.Mutation)
}

// Start injects the page-side observer and begins draining its buffer.
func (s *mutationSource) Start(ctx context.Context, emit func(instrument.Mutation)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return errors.New("remote: mutation source already started")
	}

	if _, err := s.ad.page.Context(ctx).Eval(string(observerJS)); err != nil {
		return fmt.Errorf("remote: inject observer: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.emit = emit

	go s.loop(loopCtx)
	return nil
}

func (s *mutationSource) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.ad.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.drain(ctx); err != nil {
				s.ad.cfg.Logger.Warn("remote: drain mutations", "error", err)
			}
		}
	}
}

// drain moves buffered records from the page into the emit callback.
func (s *mutationSource) drain(ctx context.Context) error {
	res, err := s.ad.page.Context(ctx).Eval(jsDrainMutations)
	if err != nil {
		return err
	}
	for _, rec := range res.Value.Arr() {
		s.emit(instrument.Mutation{
			Kind:      instrument.Kind(rec.Get("type").Str()),
			Tag:       rec.Get("tag").Str(),
			Added:     rec.Get("added").Int(),
			Removed:   rec.Get("removed").Int(),
			Timestamp: time.UnixMilli(int64(rec.Get("ts").Num())),
		})
	}
	return nil
}

// Stop halts the poll loop, flushes the final page buffer, and removes the
// page-side observer.
func (s *mutationSource) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel == nil {
		return errors.New("remote: mutation source not started")
	}
	cancel()
	<-done

	if err := s.drain(ctx); err != nil {
		return fmt.Errorf("remote: final drain: %w", err)
	}
	if _, err := s.ad.page.Context(ctx).Eval(jsStopObserver); err != nil {
		s.ad.cfg.Logger.Warn("remote: remove observer", "error", err)
	}
	return nil
}

// Meter returns an instrument.Meter over the page. Memory is the page's JS
// heap when the channel exposes it, zero otherwise.
func (a *Adapter) Meter() instrument.Meter {
	return &meter{ad: a}
}

type meter struct {
	ad *Adapter
}

const jsSnapshot = `() => ({
	memory: (performance.memory && performance.memory.usedJSHeapSize) || 0,
	elements: document.getElementsByTagName('*').length,
	bytes: document.documentElement ? document.documentElement.outerHTML.length : 0
})`

func (m *meter) Snapshot(ctx context.Context) (instrument.Snapshot, error) {
	res, err := m.ad.page.Context(ctx).Eval(jsSnapshot)
	if err != nil {
		return instrument.Snapshot{}, fmt.Errorf("remote: snapshot: %w", err)
	}
	v := res.Value
	return instrument.Snapshot{
		Timestamp: time.Now(),
		Memory:    uint64(v.Get("memory").Num()),
		Elements:  v.Get("elements").Int(),
		DOMBytes:  v.Get("bytes").Int(),
	}, nil
}
