package instrument

import (
	"context"
	"fmt"
	"time"
)

// RenderMetrics is the immutable result of bracketing one action with
// before/after snapshots.
type RenderMetrics struct {
	Duration      time.Duration
	MemoryDelta   int64
	ElementDelta  int
	DOMBytesDelta int
	Before        Snapshot
	After         Snapshot
}

// MeasureRender runs action once, bracketed by two snapshots with no other
// work in between. A failing action aborts the measurement.
func MeasureRender(ctx context.Context, meter Meter, action func(context.Context) error) (*RenderMetrics, error) {
	before, err := meter.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("instrument: before snapshot: %w", err)
	}

	start := time.Now()
	if err := action(ctx); err != nil {
		return nil, fmt.Errorf("instrument: render action: %w", err)
	}
	elapsed := time.Since(start)

	after, err := meter.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("instrument: after snapshot: %w", err)
	}

	return &RenderMetrics{
		Duration:      elapsed,
		MemoryDelta:   int64(after.Memory) - int64(before.Memory),
		ElementDelta:  after.Elements - before.Elements,
		DOMBytesDelta: after.DOMBytes - before.DOMBytes,
		Before:        before,
		After:         after,
	}, nil
}

// PerformanceReport aggregates repeated render measurements into a 0-100
// score with textual recommendations.
type PerformanceReport struct {
	Iterations int
	Samples    []RenderMetrics

	Average time.Duration
	Min     time.Duration
	Max     time.Duration

	AvgMemoryDelta   int64
	TotalMemoryDelta int64

	Score           int
	Recommendations []string
}

// MeasureOption configures MeasurePerformance and SampleMemory.
type MeasureOption func(*Thresholds)

// WithThresholds replaces the default tuning constants.
func WithThresholds(t Thresholds) MeasureOption {
	return func(dst *Thresholds) {
		*dst = t
		dst.applyDefaults()
	}
}

// MeasurePerformance runs action iterations times with a settling delay
// between runs and aggregates the samples. Render time and memory delta are
// scored independently against their acceptable thresholds (linear penalty
// past the threshold, floored at 0) and averaged into the final score.
func MeasurePerformance(ctx context.Context, meter Meter, iterations int, action func(context.Context) error, opts ...MeasureOption) (*PerformanceReport, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("instrument: iterations must be positive, got %d", iterations)
	}
	th := DefaultThresholds()
	for _, opt := range opts {
		opt(&th)
	}

	samples := make([]RenderMetrics, 0, iterations)
	for i := 0; i < iterations; i++ {
		m, err := MeasureRender(ctx, meter, action)
		if err != nil {
			return nil, fmt.Errorf("instrument: iteration %d: %w", i+1, err)
		}
		samples = append(samples, *m)

		if i < iterations-1 {
			select {
			case <-time.After(th.SettleDelay):
			case <-ctx.Done():
				return nil, fmt.Errorf("instrument: settling: %w", ctx.Err())
			}
		}
	}

	r := &PerformanceReport{
		Iterations: iterations,
		Samples:    samples,
		Min:        samples[0].Duration,
		Max:        samples[0].Duration,
	}
	var totalTime time.Duration
	for _, s := range samples {
		totalTime += s.Duration
		r.TotalMemoryDelta += s.MemoryDelta
		if s.Duration < r.Min {
			r.Min = s.Duration
		}
		if s.Duration > r.Max {
			r.Max = s.Duration
		}
	}
	r.Average = totalTime / time.Duration(iterations)
	r.AvgMemoryDelta = r.TotalMemoryDelta / int64(iterations)

	timeScore := normalizeScore(float64(r.Average), float64(th.AcceptableRenderTime))
	memScore := normalizeScore(float64(r.AvgMemoryDelta), float64(th.AcceptableMemoryDelta))
	r.Score = (timeScore + memScore) / 2
	r.Recommendations = recommend(r, th)

	return r, nil
}

// normalizeScore maps a measurement to 0-100: full score at or under the
// threshold, then a linear penalty reaching 0 at twice the threshold.
func normalizeScore(value, threshold float64) int {
	if threshold <= 0 || value <= threshold {
		return 100
	}
	score := 100 - (value-threshold)/threshold*100
	if score < 0 {
		return 0
	}
	return int(score)
}

func recommend(r *PerformanceReport, th Thresholds) []string {
	var recs []string
	if r.Average > th.AcceptableRenderTime {
		recs = append(recs, fmt.Sprintf(
			"average render time %v exceeds the acceptable %v; batch document writes or reduce per-render work",
			r.Average.Round(time.Microsecond), th.AcceptableRenderTime))
	}
	if r.AvgMemoryDelta > th.AcceptableMemoryDelta {
		recs = append(recs, fmt.Sprintf(
			"average memory delta %d bytes exceeds the acceptable %d; release references between renders",
			r.AvgMemoryDelta, th.AcceptableMemoryDelta))
	}
	if r.Score < 50 {
		recs = append(recs, "overall performance score is poor; profile the action before optimizing further")
	}
	if len(recs) == 0 {
		recs = append(recs, "render performance is within acceptable thresholds")
	}
	return recs
}
