// Package dispatch sends store mutations to the remote backend without
// blocking the caller.
//
// Local state is authoritative. A Dispatcher forwards each mutation at most
// once: with no remote bound it is a silent no-op, and a rejected mutation is
// logged and reported to the Sink but never retried or queued. Callers never
// see remote errors.
package dispatch
