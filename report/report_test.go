package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/veridom/veridom/flow"
)

func sampleRun(t *testing.T) *flow.Result {
	t.Helper()
	w := flow.New("login", flow.Options{IDs: func() string { return "run_test" }}).
		Add(flow.Step{Name: "open", Action: func(context.Context) error { return nil }, Required: true}).
		Add(flow.Step{Name: "banner", Action: func(context.Context) error { return errors.New("missing") }}).
		Add(flow.Step{Name: "submit", Action: func(context.Context) error { return nil }, Required: true})
	res, err := w.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return res
}

func TestFromResult(t *testing.T) {
	stats := FromResult("smoke", sampleRun(t))

	if stats.Suite != "smoke" || stats.RunID != "run_test" {
		t.Errorf("identity: %+v", stats)
	}
	if stats.Total != 3 || stats.Passed != 2 || stats.Failed != 1 {
		t.Errorf("totals: total %d passed %d failed %d", stats.Total, stats.Passed, stats.Failed)
	}
	if stats.Aborted {
		t.Error("completed run marked aborted")
	}
	if stats.Tests[1].Error != "missing" {
		t.Errorf("failed step error: got %q", stats.Tests[1].Error)
	}
	if stats.Timestamp.IsZero() {
		t.Error("timestamp: zero")
	}
}

func TestFromAbort(t *testing.T) {
	w := flow.New("checkout", flow.Options{}).
		Add(flow.Step{Name: "pay", Action: func(context.Context) error { return errors.New("declined") }, Required: true}).
		Add(flow.Step{Name: "receipt", Action: func(context.Context) error { return nil }, Required: true})

	_, err := w.Execute(context.Background())
	var abort *flow.AbortError
	if !errors.As(err, &abort) {
		t.Fatalf("got %v, want *flow.AbortError", err)
	}

	stats := FromAbort("smoke", abort)
	if !stats.Aborted || stats.AbortStep != "pay" {
		t.Errorf("abort marking: %+v", stats)
	}
	if stats.Total != 1 || stats.Failed != 1 {
		t.Errorf("totals: %+v", stats)
	}
}

func TestStdoutSinkWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStdout(&buf)

	stats := FromResult("smoke", sampleRun(t))
	if err := sink.Send(context.Background(), stats); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := sink.Send(context.Background(), stats); err != nil {
		t.Fatalf("Send: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	var decoded RunStats
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if decoded.Suite != "smoke" || decoded.Total != 3 {
		t.Errorf("decoded: %+v", decoded)
	}
}

func TestRouterFansOutAndReturnsFirstError(t *testing.T) {
	var got []string
	okSink := NewCallback(func(_ context.Context, stats RunStats) error {
		got = append(got, stats.RunID)
		return nil
	})
	bad := errors.New("backend down")
	badSink := NewCallback(func(context.Context, RunStats) error { return bad })

	router := NewRouter(nil, badSink, okSink)
	err := router.Send(context.Background(), RunStats{RunID: "r1"})
	if !errors.Is(err, bad) {
		t.Errorf("got %v, want first sink error", err)
	}
	if len(got) != 1 || got[0] != "r1" {
		t.Errorf("healthy sink skipped: %v", got)
	}
	if err := router.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestCallbackNilHandlerDrops(t *testing.T) {
	sink := NewCallback(nil)
	if err := sink.Send(context.Background(), RunStats{}); err != nil {
		t.Errorf("Send: %v", err)
	}
}

func TestElapsedSurvivesRoundTrip(t *testing.T) {
	stats := RunStats{Elapsed: 1500 * time.Millisecond}
	raw, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back RunStats
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Elapsed != stats.Elapsed {
		t.Errorf("elapsed: got %v, want %v", back.Elapsed, stats.Elapsed)
	}
}
