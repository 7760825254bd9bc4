package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

// DefaultTimeout bounds one remote mutation when New gets a zero timeout.
const DefaultTimeout = 10 * time.Second

type bound struct {
	m remote.Mutator
}

// Dispatcher forwards mutations to the currently bound remote.
type Dispatcher struct {
	client  atomic.Pointer[bound]
	log     logging.Logger
	sink    Sink
	metrics *Metrics
	timeout time.Duration

	// mu guards inflight; idle is signalled when it drops to zero.
	mu       sync.Mutex
	idle     *sync.Cond
	inflight int
}

// New creates a Dispatcher with no remote bound. sink and metrics may be nil.
func New(log logging.Logger, sink Sink, metrics *Metrics, timeout time.Duration) *Dispatcher {
	if log == nil {
		log = logging.Nop()
	}
	if sink == nil {
		sink = nopSink{}
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	d := &Dispatcher{
		log:     log.With("component", "dispatch"),
		sink:    sink,
		metrics: metrics,
		timeout: timeout,
	}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// SetClient binds m as the remote. A nil m unbinds it and turns every later
// Dispatch into a no-op. Dispatches already in flight keep their client.
func (d *Dispatcher) SetClient(m remote.Mutator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if m == nil {
		d.client.Store(nil)
		return
	}
	d.client.Store(&bound{m: m})
}

// Bound reports whether a remote is currently bound.
func (d *Dispatcher) Bound() bool {
	return d.client.Load() != nil
}

// Dispatch sends ref with args in the background and returns immediately.
// It reports false when no remote is bound and the mutation was skipped.
func (d *Dispatcher) Dispatch(ref remote.MutationRef, args remote.Args) bool {
	d.mu.Lock()
	b := d.client.Load()
	if b != nil {
		d.inflight++
	}
	d.mu.Unlock()

	if b == nil {
		d.metrics.skipped.WithLabelValues(string(ref)).Inc()
		d.sink.Record(Result{Ref: ref, Args: args, Outcome: OutcomeSkipped})
		return false
	}

	d.metrics.attempted.WithLabelValues(string(ref)).Inc()
	go func() {
		defer d.done()
		d.send(b.m, ref, args)
	}()
	return true
}

func (d *Dispatcher) done() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inflight--
	if d.inflight == 0 {
		d.idle.Broadcast()
	}
}

func (d *Dispatcher) send(m remote.Mutator, ref remote.MutationRef, args remote.Args) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	err := d.mutate(ctx, m, ref, args)
	elapsed := time.Since(start)
	d.metrics.duration.WithLabelValues(string(ref)).Observe(elapsed.Seconds())

	res := Result{Ref: ref, Args: args, Outcome: OutcomeApplied, Duration: elapsed}
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		d.metrics.failed.WithLabelValues(string(ref)).Inc()
		d.log.Warn(ctx, "remote mutation failed", "mutation", string(ref), "error", err)
	}
	d.sink.Record(res)
}

func (d *Dispatcher) mutate(ctx context.Context, m remote.Mutator, ref remote.MutationRef, args remote.Args) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("mutation panicked: %v", p)
		}
	}()
	return m.Mutate(ctx, ref, args)
}

// Wait blocks until no dispatch is in flight. It is safe to call while
// other goroutines keep dispatching.
func (d *Dispatcher) Wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.inflight > 0 {
		d.idle.Wait()
	}
}
