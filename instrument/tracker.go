package instrument

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

var (
	// ErrAlreadyTracking is returned by StartTracking while a session is live.
	ErrAlreadyTracking = errors.New("instrument: tracking already started")
	// ErrNotTracking is returned by StopTracking with no live session.
	ErrNotTracking = errors.New("instrument: tracking not started")
)

// Summary is the immutable result of one tracking session.
type Summary struct {
	Total            int
	AddedNodes       int
	RemovedNodes     int
	AttributeChanges int
	TextChanges      int
	ByKind           map[Kind]int
	ByTag            map[string]int

	StartedAt time.Time
	StoppedAt time.Time
	Duration  time.Duration

	// AvgPerSecond is the mean mutation rate over the whole session.
	// PeakPerSecond is the highest rate seen in any PeakWindow-wide span,
	// computed from per-mutation timestamps. Both are approximate when the
	// source batches delivery.
	AvgPerSecond  float64
	PeakPerSecond float64
	PeakWindow    time.Duration
}

// Tracker brackets exactly one mutation-observation session over a Source.
// Lifecycle is idle -> tracking -> idle; any other transition is an error.
// Callers drive StartTracking and StopTracking sequentially.
type Tracker struct {
	source Source
	window time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	tracking bool
	started  time.Time
	muts     []Mutation
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithPeakWindow sets the sliding window width for the peak rate. The
// default is one second.
func WithPeakWindow(w time.Duration) TrackerOption {
	return func(t *Tracker) {
		if w > 0 {
			t.window = w
		}
	}
}

// WithLogger sets the tracker's logger.
func WithLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Track creates a Tracker over source.
func Track(source Source, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		source: source,
		window: time.Second,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StartTracking opens the session and begins recording mutations.
func (t *Tracker) StartTracking(ctx context.Context) error {
	t.mu.Lock()
	if t.tracking {
		t.mu.Unlock()
		return ErrAlreadyTracking
	}
	t.tracking = true
	t.started = time.Now()
	t.muts = nil
	t.mu.Unlock()

	if err := t.source.Start(ctx, t.record); err != nil {
		t.mu.Lock()
		t.tracking = false
		t.mu.Unlock()
		return fmt.Errorf("instrument: start source: %w", err)
	}

	t.logger.Debug("instrument: tracking started")
	return nil
}

// StopTracking closes the session and returns its Summary. The source is
// stopped first so a batching source can flush its final records into the
// session before counting.
func (t *Tracker) StopTracking(ctx context.Context) (*Summary, error) {
	t.mu.Lock()
	if !t.tracking {
		t.mu.Unlock()
		return nil, ErrNotTracking
	}
	t.mu.Unlock()

	stopErr := t.source.Stop(ctx)

	t.mu.Lock()
	t.tracking = false
	muts := t.muts
	t.muts = nil
	started := t.started
	t.mu.Unlock()

	if stopErr != nil {
		return nil, fmt.Errorf("instrument: stop source: %w", stopErr)
	}

	s := summarize(muts, started, time.Now(), t.window)
	t.logger.Debug("instrument: tracking stopped",
		"total", s.Total, "duration", s.Duration)
	return s, nil
}

// record receives one mutation from the source. Records arriving outside a
// live session are dropped.
func (t *Tracker) record(m Mutation) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	t.mu.Lock()
	if t.tracking {
		t.muts = append(t.muts, m)
	}
	t.mu.Unlock()
}

func summarize(muts []Mutation, started, stopped time.Time, window time.Duration) *Summary {
	s := &Summary{
		Total:      len(muts),
		ByKind:     make(map[Kind]int),
		ByTag:      make(map[string]int),
		StartedAt:  started,
		StoppedAt:  stopped,
		Duration:   stopped.Sub(started),
		PeakWindow: window,
	}

	for _, m := range muts {
		s.ByKind[m.Kind]++
		if m.Tag != "" {
			s.ByTag[m.Tag]++
		}
		switch m.Kind {
		case KindChildList:
			s.AddedNodes += m.Added
			s.RemovedNodes += m.Removed
		case KindAttributes:
			s.AttributeChanges++
		case KindCharacterData:
			s.TextChanges++
		}
	}

	if secs := s.Duration.Seconds(); secs > 0 {
		s.AvgPerSecond = float64(s.Total) / secs
	}
	s.PeakPerSecond = peakRate(muts, window)
	return s
}

// peakRate finds the densest window-wide span of mutation timestamps and
// converts its count to a per-second rate.
func peakRate(muts []Mutation, window time.Duration) float64 {
	if len(muts) == 0 || window <= 0 {
		return 0
	}

	times := make([]time.Time, len(muts))
	for i, m := range muts {
		times[i] = m.Timestamp
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	best, j := 0, 0
	for i := range times {
		if j < i {
			j = i
		}
		for j < len(times) && times[j].Sub(times[i]) < window {
			j++
		}
		if j-i > best {
			best = j - i
		}
	}
	return float64(best) / window.Seconds()
}
