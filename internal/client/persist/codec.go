package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Migrator converts a payload saved at an older schema version. Returning
// ok=false discards the payload and the store starts empty.
type Migrator[T any] func(fromVersion int, payload []byte) (state T, ok bool)

// Discard is the migration policy that drops stale payloads. The next remote
// snapshot refills the store.
func Discard[T any](int, []byte) (T, bool) {
	var zero T
	return zero, false
}

// Encode marshals state into an envelope for namespace.
func Encode[T any](namespace string, version int, state T, now time.Time) (Envelope, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", namespace, err)
	}
	return Envelope{Namespace: namespace, Version: version, Payload: payload, SavedAt: now.UTC()}, nil
}

// Decode loads namespace. ok is false when nothing was stored or a stale
// payload was discarded by migrate. A nil migrate behaves like Discard.
func Decode[T any](ctx context.Context, b Backend, namespace string, version int, migrate Migrator[T]) (state T, ok bool, err error) {
	env, found, err := b.Load(ctx, namespace)
	if err != nil || !found {
		return state, false, err
	}

	if env.Version != version {
		if migrate == nil {
			return state, false, nil
		}
		state, ok = migrate(env.Version, env.Payload)
		return state, ok, nil
	}

	if err := json.Unmarshal(env.Payload, &state); err != nil {
		var zero T
		return zero, false, fmt.Errorf("unmarshal %s: %w", namespace, err)
	}
	return state, true, nil
}
