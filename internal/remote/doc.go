// Package remote defines the boundary between the local stores and the
// hosted backend.
//
// # Overview
//
// Every remote operation is identified by a stable reference (MutationRef or
// QueryRef, "<table>:<op>") plus a structured argument or result object. Ids
// travel in the field named "clientId" and timestamps are RFC 3339 strings.
// Nested collections are plain ordered arrays of flat objects carrying their
// own clientId and an integer "order".
//
// The package provides:
//  1. The Mutator / Querier / Watcher contracts the client layer depends on.
//  2. Doc, a decoded remote object with defensive accessors.
//  3. A gRPC transport: a hand-written service descriptor whose messages are
//     google.protobuf.Struct, a GRPCClient, and the server registration hook
//     used by the dev remote.
//
// # Error Handling
//
// Transport failures are mapped to sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized.
package remote
