package instrument

import (
	"context"
	"fmt"
	"time"
)

// LeakResult is the immutable outcome of one memory sampling run. It is a
// heuristic signal, not a proof: scores accumulate from weighted growth
// thresholds and Leaking flags a score above the configured limit.
type LeakResult struct {
	Samples int
	First   Snapshot
	Last    Snapshot

	MemoryGrowth  int64 // bytes, last minus first
	ElementGrowth int

	MemoryPerSnapshot   float64
	ElementsPerSnapshot float64

	Score   int // 0-100
	Leaking bool
}

// SampleMemory takes a snapshot every interval for the whole duration, then
// scores growth between the first and last readings. The call blocks its
// caller for the full duration; ctx cancellation is only honored between
// ticks. At least two samples are required, so duration must exceed
// interval.
func SampleMemory(ctx context.Context, meter Meter, duration, interval time.Duration, opts ...MeasureOption) (*LeakResult, error) {
	if interval <= 0 || duration < interval {
		return nil, fmt.Errorf("instrument: need duration >= interval > 0, got %v/%v", duration, interval)
	}
	th := DefaultThresholds()
	for _, opt := range opts {
		opt(&th)
	}

	var snaps []Snapshot
	take := func() error {
		s, err := meter.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("instrument: leak snapshot %d: %w", len(snaps)+1, err)
		}
		snaps = append(snaps, s)
		return nil
	}

	if err := take(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(duration)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for time.Now().Before(deadline) {
		select {
		case <-ticker.C:
			if err := take(); err != nil {
				return nil, err
			}
		case <-ctx.Done():
			return nil, fmt.Errorf("instrument: leak sampling: %w", ctx.Err())
		}
	}

	return scoreLeak(snaps, th), nil
}

func scoreLeak(snaps []Snapshot, th Thresholds) *LeakResult {
	r := &LeakResult{
		Samples: len(snaps),
		First:   snaps[0],
		Last:    snaps[len(snaps)-1],
	}
	r.MemoryGrowth = int64(r.Last.Memory) - int64(r.First.Memory)
	r.ElementGrowth = r.Last.Elements - r.First.Elements

	if r.Samples > 1 {
		per := float64(r.Samples - 1)
		r.MemoryPerSnapshot = float64(r.MemoryGrowth) / per
		r.ElementsPerSnapshot = float64(r.ElementGrowth) / per
	}

	if r.MemoryPerSnapshot > th.LeakMemoryPerSample {
		r.Score += th.LeakMemoryWeight
	}
	if r.ElementsPerSnapshot > th.LeakElementsPerSample {
		r.Score += th.LeakElementsWeight
	}
	if r.MemoryGrowth > th.LeakTotalMemory {
		r.Score += th.LeakTotalWeight
	}
	if r.Score > 100 {
		r.Score = 100
	}
	r.Leaking = r.Score > th.LeakScoreLimit

	return r
}
