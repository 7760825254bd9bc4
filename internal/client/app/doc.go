// Package app wires the client together: one backend, one dispatcher, one
// set of stores and one syncer, constructed once and shared by reference.
//
// Before Login (or Resume) the app is local-only: every store mutation
// succeeds and persists, and the dispatcher drops remote calls. Login binds
// a remote client, uploads pre-existing local data once per user, hydrates
// every store and starts the live subscription.
package app
