package report

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Sink is the output interface. Implementations deliver run statistics to
// different backends (stdout, in-process callback, the external storage API).
type Sink interface {
	Send(ctx context.Context, stats RunStats) error
	Close() error
}

// Stdout writes stats as JSON lines to an io.Writer (default os.Stdout).
type Stdout struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewStdout creates a Stdout sink. If w is nil, os.Stdout is used.
func NewStdout(w io.Writer) *Stdout {
	if w == nil {
		w = os.Stdout
	}
	return &Stdout{enc: json.NewEncoder(w)}
}

func (s *Stdout) Send(_ context.Context, stats RunStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(stats)
}

func (s *Stdout) Close() error { return nil }

// Callback delivers stats via a Go function call, for when the harness and
// its reporter live in the same binary.
type Callback struct {
	fn func(ctx context.Context, stats RunStats) error
}

// NewCallback creates a Callback sink. A nil handler drops every record.
func NewCallback(fn func(ctx context.Context, stats RunStats) error) *Callback {
	return &Callback{fn: fn}
}

func (c *Callback) Send(ctx context.Context, stats RunStats) error {
	if c.fn != nil {
		return c.fn(ctx, stats)
	}
	return nil
}

func (c *Callback) Close() error { return nil }

// Router fans out stats to all configured sinks. One sink error does not
// block the others; errors are logged and the first encountered is returned.
type Router struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewRouter creates a fan-out router delivering to all sinks.
func NewRouter(logger *slog.Logger, sinks ...Sink) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{sinks: sinks, logger: logger}
}

func (r *Router) Send(ctx context.Context, stats RunStats) error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Send(ctx, stats); err != nil {
			r.logger.Warn("report: send failed", "suite", stats.Suite, "run", stats.RunID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Router) Close() error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
