package stores

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

const pendingKeyPrefix = "pending:"

// singletonID stands for the single record of a singleton store.
const singletonID = "-"

// pendingState is what the remote has not seen from one store.
//
// Upload holds ids whose create or update was skipped because no remote was
// bound; the value is true while the record never reached the remote. An id
// stays until a snapshot lists it.
// Deleted holds locally deleted ids that a snapshot may still list; the
// value is true while the remove itself was skipped.
type pendingState struct {
	Upload  map[string]bool `json:"upload,omitempty"`
	Deleted map[string]bool `json:"deleted,omitempty"`
}

// pendingSet is the persisted pendingState of a store, kept in backend
// metadata next to the store's namespace.
type pendingSet struct {
	mu      sync.Mutex
	key     string
	backend persist.Backend
	log     logging.Logger
	state   pendingState
}

func newPendingSet(backend persist.Backend, namespace string, log logging.Logger) *pendingSet {
	return &pendingSet{key: pendingKeyPrefix + namespace, backend: backend, log: log}
}

func (p *pendingSet) load(ctx context.Context) {
	raw, err := p.backend.GetMeta(ctx, p.key)
	if err != nil || raw == nil {
		if err != nil {
			p.log.Warn(ctx, "reading pending changes failed", "error", err)
		}
		return
	}
	var st pendingState
	if err := json.Unmarshal(raw, &st); err != nil {
		p.log.Warn(ctx, "discarding unreadable pending changes", "error", err)
		return
	}
	p.mu.Lock()
	p.state = st
	p.mu.Unlock()
}

// saveLocked persists the state; p.mu must be held.
func (p *pendingSet) saveLocked(ctx context.Context) {
	var err error
	if len(p.state.Upload) == 0 && len(p.state.Deleted) == 0 {
		err = p.backend.DeleteMeta(ctx, p.key)
	} else {
		var raw []byte
		if raw, err = json.Marshal(p.state); err == nil {
			err = p.backend.SetMeta(ctx, p.key, raw)
		}
	}
	if err != nil {
		p.log.Warn(ctx, "persist pending changes failed", "error", err)
	}
}

// skipped records a create (created is true) or update of id that did not
// reach a remote.
func (p *pendingSet) skipped(ctx context.Context, id string, created bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Upload == nil {
		p.state.Upload = make(map[string]bool)
	}
	p.state.Upload[id] = p.state.Upload[id] || created
	delete(p.state.Deleted, id)
	p.saveLocked(ctx)
}

// deleted records a local delete of id. A record that never reached the
// remote is simply forgotten; anything else is hidden from snapshots until
// one no longer lists it.
func (p *pendingSet) deleted(ctx context.Context, id string, sent bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	localOnly := p.state.Upload[id]
	delete(p.state.Upload, id)
	if !localOnly {
		if p.state.Deleted == nil {
			p.state.Deleted = make(map[string]bool)
		}
		p.state.Deleted[id] = !sent
	}
	p.saveLocked(ctx)
}

func (p *pendingSet) localOnly(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Upload[id]
}

// revive drops a tombstone when a record with the same id is written again.
func (p *pendingSet) revive(ctx context.Context, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.state.Deleted[id]; !ok {
		return
	}
	delete(p.state.Deleted, id)
	p.saveLocked(ctx)
}

// settle takes the ids of a snapshot and reports which of them are deleted
// locally. Listed ids count as uploaded; tombstones of ids the snapshot no
// longer lists are dropped.
func (p *pendingSet) settle(ctx context.Context, ids []string) map[string]bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.state.Deleted) == 0 && len(p.state.Upload) == 0 {
		return nil
	}

	listed := make(map[string]bool, len(ids))
	for _, id := range ids {
		listed[id] = true
	}
	hidden := make(map[string]bool)
	changed := false
	for id := range p.state.Upload {
		if listed[id] {
			delete(p.state.Upload, id)
			changed = true
		}
	}
	for id := range p.state.Deleted {
		if listed[id] {
			hidden[id] = true
			continue
		}
		delete(p.state.Deleted, id)
		changed = true
	}
	if changed {
		p.saveLocked(ctx)
	}
	return hidden
}

// snapshot returns the ids to upload and the ids whose remove is still owed.
func (p *pendingSet) snapshot() (uploads, removes []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id := range p.state.Upload {
		uploads = append(uploads, id)
	}
	for id, owed := range p.state.Deleted {
		if owed {
			removes = append(removes, id)
		}
	}
	return uploads, removes
}

func (p *pendingSet) uploaded(ctx context.Context, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.state.Upload[id]; !ok {
		return
	}
	delete(p.state.Upload, id)
	p.saveLocked(ctx)
}

func (p *pendingSet) removeSent(ctx context.Context, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.state.Deleted[id]; ok {
		p.state.Deleted[id] = false
		p.saveLocked(ctx)
	}
}

// clearUploads forgets owed uploads, keeping tombstones.
func (p *pendingSet) clearUploads(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.state.Upload) == 0 {
		return
	}
	p.state.Upload = nil
	p.saveLocked(ctx)
}

func (p *pendingSet) reset(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = pendingState{}
	p.saveLocked(ctx)
}

// visible drops snapshot records that were deleted locally and settles the
// tombstones against the snapshot.
func visible[T any](ctx context.Context, p *pendingSet, items []T, key func(T) string) []T {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = key(it)
	}
	hidden := p.settle(ctx, ids)
	if len(hidden) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !hidden[key(it)] {
			out = append(out, it)
		}
	}
	return out
}

// withUnsent appends to a snapshot the local records the remote has never
// received, so replacing local state with it loses nothing.
func withUnsent[T any](p *pendingSet, local, items []T, key func(T) string) []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.state.Upload) == 0 {
		return items
	}

	listed := make(map[string]bool, len(items))
	for _, it := range items {
		listed[key(it)] = true
	}
	for _, l := range local {
		id := key(l)
		if p.state.Upload[id] && !listed[id] {
			items = append(items, l)
		}
	}
	return items
}

// flushSingleton sends the current record of a singleton store when an
// upsert of it was skipped.
func (b *base[S]) flushSingleton(ctx context.Context, current func() (Upload, bool)) int {
	return b.flush(ctx, "", func(string) (Upload, bool) { return current() })
}

// flush dispatches what the remote has not seen: a fresh upload for every
// skipped create or update, and every skipped remove. lookup builds the
// upload of one id; removeRef is empty for singleton stores. Uploads stay
// pending until a snapshot lists them. It returns the number of mutations
// handed to the remote.
func (b *base[S]) flush(ctx context.Context, removeRef remote.MutationRef, lookup func(id string) (Upload, bool)) int {
	uploads, removes := b.pending.snapshot()
	n := 0
	for _, id := range uploads {
		u, ok := lookup(id)
		if !ok {
			b.pending.uploaded(ctx, id)
			continue
		}
		if b.deps.Dispatcher.Dispatch(u.Ref, u.Args) {
			n++
		}
	}
	if removeRef == "" {
		return n
	}
	for _, id := range removes {
		if b.deps.Dispatcher.Dispatch(removeRef, idArgs(id)) {
			b.pending.removeSent(ctx, id)
			n++
		}
	}
	if n > 0 {
		b.log.Info(ctx, "sent changes made while signed out", "mutations", n)
	}
	return n
}
