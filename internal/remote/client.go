package remote

import "context"

// Mutator invokes a named remote mutation.
type Mutator interface {
	Mutate(ctx context.Context, ref MutationRef, args Args) error
}

// Querier fetches the current result of a named remote query.
type Querier interface {
	Query(ctx context.Context, ref QueryRef) ([]Doc, error)
}

// Watcher subscribes to a named query. fn is called with a full snapshot
// every time the result changes. Watch blocks until ctx is done or the
// stream fails.
type Watcher interface {
	Watch(ctx context.Context, ref QueryRef, fn func([]Doc)) error
}

// Client is a connected remote handle.
type Client interface {
	Mutator
	Querier
	Watcher
	Close() error
}
