package instrument

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeSource is a scriptable Source. Emitting goes through the callback the
// tracker registered; onStop records are flushed during Stop, like a
// batching source draining its buffer.
type fakeSource struct {
	emit     func(Mutation)
	startErr error
	stopErr  error
	onStop   []Mutation
	starts   int
	stops    int
}

func (s *fakeSource) Start(_ context.Context, emit func(Mutation)) error {
	s.starts++
	if s.startErr != nil {
		return s.startErr
	}
	s.emit = emit
	return nil
}

func (s *fakeSource) Stop(context.Context) error {
	s.stops++
	for _, m := range s.onStop {
		s.emit(m)
	}
	return s.stopErr
}

func TestTrackingLifecycle(t *testing.T) {
	ctx := context.Background()
	tr := Track(&fakeSource{})

	if _, err := tr.StopTracking(ctx); !errors.Is(err, ErrNotTracking) {
		t.Errorf("stop while idle: got %v, want ErrNotTracking", err)
	}
	if err := tr.StartTracking(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tr.StartTracking(ctx); !errors.Is(err, ErrAlreadyTracking) {
		t.Errorf("double start: got %v, want ErrAlreadyTracking", err)
	}
	if _, err := tr.StopTracking(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, err := tr.StopTracking(ctx); !errors.Is(err, ErrNotTracking) {
		t.Errorf("second stop: got %v, want ErrNotTracking", err)
	}
}

func TestStartErrorLeavesTrackerIdle(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{startErr: errors.New("boom")}
	tr := Track(src)

	if err := tr.StartTracking(ctx); err == nil {
		t.Fatal("start with failing source: want error")
	}
	// The failed start must not leave the session open.
	if err := tr.StartTracking(ctx); errors.Is(err, ErrAlreadyTracking) {
		t.Error("tracker stuck in tracking state after failed start")
	}
}

func TestSummaryCounts(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	tr := Track(src)

	if err := tr.StartTracking(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	now := time.Now()
	for i := 0; i < 5; i++ {
		src.emit(Mutation{Kind: KindChildList, Tag: "ul", Added: 1, Timestamp: now})
	}
	src.emit(Mutation{Kind: KindChildList, Tag: "ul", Removed: 2, Timestamp: now})
	src.emit(Mutation{Kind: KindAttributes, Tag: "div", Timestamp: now})
	src.emit(Mutation{Kind: KindAttributes, Tag: "div", Timestamp: now})
	src.emit(Mutation{Kind: KindCharacterData, Tag: "p", Timestamp: now})

	s, err := tr.StopTracking(ctx)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}

	if s.Total != 9 {
		t.Errorf("Total: got %d, want 9", s.Total)
	}
	if s.AddedNodes != 5 {
		t.Errorf("AddedNodes: got %d, want 5", s.AddedNodes)
	}
	if s.RemovedNodes != 2 {
		t.Errorf("RemovedNodes: got %d, want 2", s.RemovedNodes)
	}
	if s.AttributeChanges != 2 {
		t.Errorf("AttributeChanges: got %d, want 2", s.AttributeChanges)
	}
	if s.TextChanges != 1 {
		t.Errorf("TextChanges: got %d, want 1", s.TextChanges)
	}
	if s.ByKind[KindChildList] != 6 || s.ByKind[KindAttributes] != 2 || s.ByKind[KindCharacterData] != 1 {
		t.Errorf("ByKind: got %v", s.ByKind)
	}
	if s.ByTag["ul"] != 6 || s.ByTag["div"] != 2 || s.ByTag["p"] != 1 {
		t.Errorf("ByTag: got %v", s.ByTag)
	}
	if s.Duration <= 0 {
		t.Errorf("Duration: got %v", s.Duration)
	}
	if s.AvgPerSecond <= 0 {
		t.Errorf("AvgPerSecond: got %v", s.AvgPerSecond)
	}
}

func TestStopFlushesSourceBuffer(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{onStop: []Mutation{
		{Kind: KindChildList, Tag: "div", Added: 1},
		{Kind: KindChildList, Tag: "div", Added: 1},
	}}
	tr := Track(src)

	if err := tr.StartTracking(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	s, err := tr.StopTracking(ctx)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if s.AddedNodes != 2 {
		t.Errorf("AddedNodes from final flush: got %d, want 2", s.AddedNodes)
	}
}

func TestMutationsOutsideSessionDropped(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	tr := Track(src)

	if err := tr.StartTracking(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := tr.StopTracking(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// A stale callback reference firing after stop must not corrupt the
	// next session.
	src.emit(Mutation{Kind: KindChildList, Added: 1})

	if err := tr.StartTracking(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	s, err := tr.StopTracking(ctx)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if s.Total != 0 {
		t.Errorf("Total after restart: got %d, want 0", s.Total)
	}
}

func TestPeakRate(t *testing.T) {
	base := time.Unix(1000, 0)
	at := func(d time.Duration) Mutation {
		return Mutation{Kind: KindAttributes, Timestamp: base.Add(d)}
	}

	tests := []struct {
		name   string
		muts   []Mutation
		window time.Duration
		want   float64
	}{
		{"empty", nil, time.Second, 0},
		{"single", []Mutation{at(0)}, time.Second, 1},
		{
			"burst then quiet",
			[]Mutation{at(0), at(100 * time.Millisecond), at(200 * time.Millisecond), at(5 * time.Second), at(5100 * time.Millisecond)},
			time.Second,
			3,
		},
		{
			"unsorted input",
			[]Mutation{at(5 * time.Second), at(0), at(100 * time.Millisecond), at(200 * time.Millisecond)},
			time.Second,
			3,
		},
		{
			"half second window doubles the rate",
			[]Mutation{at(0), at(100 * time.Millisecond)},
			500 * time.Millisecond,
			4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := peakRate(tt.muts, tt.window); got != tt.want {
				t.Errorf("peakRate: got %v, want %v", got, tt.want)
			}
		})
	}
}
