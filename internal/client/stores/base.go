package stores

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

// base is the state machinery shared by all stores.
type base[S any] struct {
	mu    sync.RWMutex
	state S

	namespace string
	version   int
	migrate   persist.Migrator[S]
	initial   func() S

	deps    Deps
	log     logging.Logger
	pending *pendingSet

	lmu       sync.Mutex
	listeners map[int]func()
	nextL     int
}

func newBase[S any](deps Deps, namespace string, version int, migrate persist.Migrator[S], initial func() S) *base[S] {
	deps = deps.withDefaults()
	log := deps.Logger.With("store", namespace)
	return &base[S]{
		state:     initial(),
		namespace: namespace,
		version:   version,
		migrate:   migrate,
		initial:   initial,
		deps:      deps,
		log:       log,
		pending:   newPendingSet(deps.Backend, namespace, log),
		listeners: make(map[int]func()),
	}
}

// load restores persisted state. It reports whether anything was restored;
// unreadable state is logged and the initial state kept.
func (b *base[S]) load(ctx context.Context) bool {
	b.pending.load(ctx)

	state, ok, err := persist.Decode(ctx, b.deps.Backend, b.namespace, b.version, b.migrate)
	if err != nil {
		b.log.Warn(ctx, "discarding unreadable local state", "error", err)
		return false
	}
	if !ok {
		return false
	}

	b.mu.Lock()
	b.state = state
	b.mu.Unlock()
	return true
}

// read runs fn with the current state under the read lock. fn must not keep
// references into the state.
func (b *base[S]) read(fn func(s *S)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fn(&b.state)
}

// mutate applies fn under the write lock. When fn reports a change the new
// state is persisted and listeners are notified.
func (b *base[S]) mutate(ctx context.Context, fn func(s *S) bool) bool {
	b.mu.Lock()
	changed := fn(&b.state)
	if changed {
		b.persistLocked(ctx)
	}
	b.mu.Unlock()

	if changed {
		b.notify()
	}
	return changed
}

func (b *base[S]) persistLocked(ctx context.Context) {
	env, err := persist.Encode(b.namespace, b.version, b.state, b.now())
	if err == nil {
		err = b.deps.Backend.Save(ctx, env)
	}
	if err != nil {
		b.log.Warn(ctx, "persist failed, keeping in-memory state", "error", err)
	}
}

// save persists the current state, e.g. after seeding defaults.
func (b *base[S]) save(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.persistLocked(ctx)
}

// send dispatches a create (created is true) or update of record id. A
// skipped one is remembered and sent by FlushPending.
func (b *base[S]) send(ctx context.Context, id string, created bool, ref remote.MutationRef, args remote.Args) {
	if created {
		b.pending.revive(ctx, id)
	}
	if !b.deps.Dispatcher.Dispatch(ref, args) {
		b.pending.skipped(ctx, id, created)
	}
}

// sendRemove dispatches the remove of record id and keeps it hidden from
// snapshots that still list it.
func (b *base[S]) sendRemove(ctx context.Context, id string, ref remote.MutationRef) {
	localOnly := b.pending.localOnly(id)
	sent := false
	if !localOnly {
		sent = b.deps.Dispatcher.Dispatch(ref, idArgs(id))
	}
	b.pending.deleted(ctx, id, sent)
}

// ClearPending forgets skipped uploads, e.g. after a full upload of every
// record. Tombstones are kept.
func (b *base[S]) ClearPending(ctx context.Context) {
	b.pending.clearUploads(ctx)
}

func (b *base[S]) now() time.Time {
	return b.deps.Now().UTC()
}

func (b *base[S]) newID() string {
	return b.deps.NewID()
}

// OnChange registers fn to run after every mutation, hydration or reset.
// The returned func unregisters it.
func (b *base[S]) OnChange(fn func()) (unsubscribe func()) {
	b.lmu.Lock()
	defer b.lmu.Unlock()

	id := b.nextL
	b.nextL++
	b.listeners[id] = fn

	return func() {
		b.lmu.Lock()
		defer b.lmu.Unlock()
		delete(b.listeners, id)
	}
}

func (b *base[S]) notify() {
	b.lmu.Lock()
	fns := make([]func(), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.lmu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Reset drops local state, its persisted copy and pending changes. Nothing
// is dispatched.
func (b *base[S]) Reset(ctx context.Context) {
	b.mu.Lock()
	b.state = b.initial()
	if err := b.deps.Backend.Delete(ctx, b.namespace); err != nil {
		b.log.Warn(ctx, "delete persisted state failed", "error", err)
	}
	b.pending.reset(ctx)
	b.mu.Unlock()

	b.notify()
}
