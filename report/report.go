// Package report defines the boundary between the harness and test-result
// reporters: the finished-run statistics record and the sink interface that
// delivers it. The database reporter that POSTs stats to a storage API lives
// outside this module and implements Sink; a stdout sink ships here for
// local debugging.
package report

import (
	"time"

	"github.com/veridom/veridom/flow"
)

// TestStat records one verification step outcome.
type TestStat struct {
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// RunStats is the finished-run record handed to sinks. Aborted runs carry
// the step results gathered before the abort.
type RunStats struct {
	Suite     string        `json:"suite"`
	RunID     string        `json:"run_id"`
	Timestamp time.Time     `json:"timestamp"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Aborted   bool          `json:"aborted,omitempty"`
	AbortStep string        `json:"abort_step,omitempty"`
	Tests     []TestStat    `json:"tests"`
}

// FromResult converts a completed workflow run into RunStats.
func FromResult(suite string, res *flow.Result) RunStats {
	stats := RunStats{
		Suite:     suite,
		RunID:     res.RunID,
		Timestamp: time.Now().UTC(),
		Elapsed:   res.Elapsed,
	}
	stats.fill(res.Steps)
	return stats
}

// FromAbort converts an aborted workflow run into RunStats. The record marks
// the run aborted and names the failing step.
func FromAbort(suite string, abort *flow.AbortError) RunStats {
	stats := RunStats{
		Suite:     suite,
		RunID:     abort.RunID,
		Timestamp: time.Now().UTC(),
		Elapsed:   abort.Elapsed,
		Aborted:   true,
		AbortStep: abort.Step,
	}
	stats.fill(abort.Steps)
	return stats
}

func (s *RunStats) fill(steps []flow.StepResult) {
	s.Total = len(steps)
	s.Tests = make([]TestStat, 0, len(steps))
	for _, sr := range steps {
		ts := TestStat{Name: sr.Name, OK: sr.OK, Duration: sr.Duration}
		if sr.Err != nil {
			ts.Error = sr.Err.Error()
		}
		if sr.OK {
			s.Passed++
		} else {
			s.Failed++
		}
		s.Tests = append(s.Tests, ts)
	}
}
