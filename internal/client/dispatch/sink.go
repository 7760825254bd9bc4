package dispatch

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

// Outcome of a single dispatch.
type Outcome string

const (
	OutcomeSkipped Outcome = "skipped"
	OutcomeApplied Outcome = "applied"
	OutcomeFailed  Outcome = "failed"
)

// Result describes what happened to one mutation.
type Result struct {
	Ref      remote.MutationRef
	Args     remote.Args
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Sink receives every dispatch result. Record may be called concurrently.
type Sink interface {
	Record(Result)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Result)

func (f SinkFunc) Record(r Result) { f(r) }

type nopSink struct{}

func (nopSink) Record(Result) {}

// RecordingSink keeps every result in memory.
type RecordingSink struct {
	mu      sync.Mutex
	results []Result
}

func (s *RecordingSink) Record(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

// Results returns a copy of everything recorded so far.
func (s *RecordingSink) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Result(nil), s.results...)
}
