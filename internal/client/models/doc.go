// Package models defines the client-side synced records of fitkeeper.
//
// Every record is keyed by a client-generated ID which doubles as the
// remote "clientId". Records are persisted locally as JSON; a handful of
// fields are device-local and are never sent to or read from the remote.
package models
