package devserver

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
	"github.com/google/uuid"
)

var (
	ErrMissingID = errors.New("missing clientId")
	ErrUnknownOp = errors.New("unknown operation")
)

// FieldServerID is assigned to every record on first write.
const FieldServerID = "_id"

const singletonKey = ""

// thinTables list without their nested "exercises" field.
var thinTables = map[string]bool{
	remote.WorkoutLogsList.Table(): true,
}

type table struct {
	order []string
	docs  map[string]remote.Doc
}

type subKey struct {
	user  string
	table string
}

// Tables holds every user's records.
type Tables struct {
	mu     sync.Mutex
	users  map[string]map[string]*table
	subs   map[subKey]map[int]chan struct{}
	nextID int
}

func NewTables() *Tables {
	return &Tables{
		users: make(map[string]map[string]*table),
		subs:  make(map[subKey]map[int]chan struct{}),
	}
}

func (t *Tables) tableLocked(user, name string) *table {
	u, ok := t.users[user]
	if !ok {
		u = make(map[string]*table)
		t.users[user] = u
	}
	tbl, ok := u[name]
	if !ok {
		tbl = &table{docs: make(map[string]remote.Doc)}
		u[name] = tbl
	}
	return tbl
}

// Apply runs a mutation for user. create replaces a record with the same
// clientId, update merges the provided fields and drops null ones, remove
// of a missing record is a no-op and upsert merges into the table's single
// record.
func (t *Tables) Apply(user string, ref remote.MutationRef, args remote.Args) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	name := ref.Table()
	tbl := t.tableLocked(user, name)
	id, _ := args[remote.FieldClientID].(string)

	switch ref.Op() {
	case remote.OpCreate:
		if id == "" {
			return ErrMissingID
		}
		doc := remote.Doc{FieldServerID: uuid.NewString()}
		if old, ok := tbl.docs[id]; ok {
			doc[FieldServerID] = old[FieldServerID]
		} else {
			tbl.order = append(tbl.order, id)
		}
		merge(doc, args)
		doc[remote.FieldClientID] = id
		tbl.docs[id] = doc

	case remote.OpUpdate:
		if id == "" {
			return ErrMissingID
		}
		doc, ok := tbl.docs[id]
		if !ok {
			return fmt.Errorf("%s %s: %w", name, id, common.ErrNotFound)
		}
		merge(doc, args)

	case remote.OpRemove:
		if id == "" {
			return ErrMissingID
		}
		if _, ok := tbl.docs[id]; !ok {
			return nil
		}
		delete(tbl.docs, id)
		tbl.order = slices.DeleteFunc(tbl.order, func(s string) bool { return s == id })

	case remote.OpUpsert:
		doc, ok := tbl.docs[singletonKey]
		if !ok {
			doc = remote.Doc{FieldServerID: uuid.NewString()}
			tbl.docs[singletonKey] = doc
			tbl.order = append(tbl.order, singletonKey)
		}
		merge(doc, args)

	default:
		return fmt.Errorf("%s: %w", ref, ErrUnknownOp)
	}

	t.notifyLocked(subKey{user: user, table: name})
	return nil
}

func merge(doc remote.Doc, args remote.Args) {
	for k, v := range args {
		if k == remote.FieldClientID || k == FieldServerID {
			continue
		}
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
}

// Snapshot returns the current result of a query for user.
func (t *Tables) Snapshot(user string, ref remote.QueryRef) ([]remote.Doc, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	name := ref.Table()
	tbl := t.tableLocked(user, name)

	switch ref.Op() {
	case remote.OpList:
		out := make([]remote.Doc, 0, len(tbl.order))
		for _, id := range tbl.order {
			doc := maps.Clone(tbl.docs[id])
			if thinTables[name] {
				delete(doc, "exercises")
			}
			out = append(out, doc)
		}
		return out, nil

	case remote.OpGet:
		doc, ok := tbl.docs[singletonKey]
		if !ok {
			return []remote.Doc{}, nil
		}
		return []remote.Doc{maps.Clone(doc)}, nil

	default:
		return nil, fmt.Errorf("%s: %w", ref, ErrUnknownOp)
	}
}

// Subscribe returns a channel that receives after every change to the
// user's table. Bursts of changes may be coalesced into one signal.
func (t *Tables) Subscribe(user, name string) (<-chan struct{}, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := subKey{user: user, table: name}
	if t.subs[key] == nil {
		t.subs[key] = make(map[int]chan struct{})
	}
	id := t.nextID
	t.nextID++
	ch := make(chan struct{}, 1)
	t.subs[key][id] = ch

	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs[key], id)
	}
}

func (t *Tables) notifyLocked(key subKey) {
	for _, ch := range t.subs[key] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
