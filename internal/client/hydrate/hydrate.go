// Package hydrate reconciles remote snapshots with local state.
//
// Two policies exist. PreserveLocal keeps the richer local copy of every
// record the device already has and only materializes records it has never
// seen; it is used where the remote listing is thinner than local data.
// Replace takes the snapshot as the new truth.
package hydrate

import (
	"slices"
	"strings"
)

// PreserveLocal merges a remote snapshot into local state:
//   - ids only in remote are added as decoded from the snapshot;
//   - ids in both keep the local record unchanged;
//   - ids only in local survive.
//
// The result holds each id once and is ordered by less, ties broken by id.
// Records with an empty id are dropped.
func PreserveLocal[T any](local, remote []T, key func(T) string, less func(a, b T) bool) []T {
	seen := make(map[string]struct{}, len(local)+len(remote))
	out := make([]T, 0, len(local)+len(remote))

	for _, l := range local {
		id := key(l)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, l)
	}
	for _, r := range remote {
		id := key(r)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, r)
	}

	sortByID(out, key, less)
	return out
}

// Replace returns the snapshot itself, keeping the last record for every id
// at the position of its first occurrence. Records with an empty id are
// dropped.
func Replace[T any](remote []T, key func(T) string) []T {
	index := make(map[string]int, len(remote))
	out := make([]T, 0, len(remote))

	for _, r := range remote {
		id := key(r)
		if id == "" {
			continue
		}
		if i, ok := index[id]; ok {
			out[i] = r
			continue
		}
		index[id] = len(out)
		out = append(out, r)
	}
	return out
}

// Sorted applies less with an id tie-break, as PreserveLocal does.
func Sorted[T any](items []T, key func(T) string, less func(a, b T) bool) []T {
	out := append([]T(nil), items...)
	sortByID(out, key, less)
	return out
}

func sortByID[T any](items []T, key func(T) string, less func(a, b T) bool) {
	slices.SortStableFunc(items, func(a, b T) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		}
		return strings.Compare(key(a), key(b))
	})
}
