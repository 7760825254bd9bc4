// Package stores holds the canonical on-device state of every entity family.
//
// Each store keeps its state in memory behind a mutex, mirrors it to a
// persist.Backend namespace and forwards every mutation to the remote
// backend through a Dispatcher. A mutation runs in three steps:
//
//  1. update memory and persist (best effort: a failed write is logged, the
//     in-memory change stands);
//  2. notify OnChange listeners;
//  3. dispatch the matching remote mutation without waiting for it.
//
// A dispatch skipped because no remote is bound is remembered in the
// store's pending set and sent again by FlushPending. Deleted ids stay
// hidden from snapshots that still list them.
//
// Remote snapshots come back through Hydrate. Workout history and meal logs
// use the richness-preserving merge; the exercise library, templates and
// recipes are replaced wholesale; the singleton stores replace their synced
// fields and keep device-local ones. Hydration never dispatches.
//
// Updates take opt.Value fields so that "not provided" and "cleared" are
// distinct. Updating or deleting a missing id is a no-op.
package stores
