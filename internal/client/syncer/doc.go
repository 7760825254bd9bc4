// Package syncer keeps the local stores hydrated from the remote.
//
// HydrateOnce runs every bound query a single time, which is what a fresh
// login does before handing control to the user. Run then holds one live
// subscription per query and re-subscribes after transient failures until
// the context is cancelled.
package syncer
