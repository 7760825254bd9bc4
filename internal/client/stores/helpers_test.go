package stores

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/idgen"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

type sent struct {
	Ref  remote.MutationRef
	Args remote.Args
}

// recorder captures dispatched mutations. While offline it skips them, as
// a dispatcher with no remote bound does.
type recorder struct {
	mu      sync.Mutex
	calls   []sent
	offline bool
}

func (r *recorder) Dispatch(ref remote.MutationRef, args remote.Args) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.offline {
		return false
	}
	r.calls = append(r.calls, sent{Ref: ref, Args: args})
	return true
}

func (r *recorder) SetOffline(offline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offline = offline
}

func (r *recorder) Calls() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.calls...)
}

func (r *recorder) Last() sent {
	calls := r.Calls()
	if len(calls) == 0 {
		return sent{}
	}
	return calls[len(calls)-1]
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	deps    Deps
	backend *persist.MemoryBackend
	rec     *recorder
	clock   *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		backend: persist.NewMemoryBackend(),
		rec:     &recorder{},
		clock:   newClock(),
	}
	f.deps = Deps{
		Backend:    f.backend,
		Dispatcher: f.rec,
		Now:        f.clock.Now,
		NewID:      idgen.Sequence("id"),
	}
	return f
}

// brokenBackend fails every write.
type brokenBackend struct {
	*persist.MemoryBackend
}

func (brokenBackend) Save(context.Context, persist.Envelope) error {
	return errors.New("disk full")
}

// docsFrom turns recorded create args into a remote snapshot.
func docsFrom(calls []sent, ref remote.MutationRef) []remote.Doc {
	var out []remote.Doc
	for _, c := range calls {
		if c.Ref == ref {
			out = append(out, remote.Doc(c.Args))
		}
	}
	return out
}
