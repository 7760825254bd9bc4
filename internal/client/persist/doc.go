// Package persist stores versioned state blobs on the device.
//
// Every store owns one namespace. Its payload is saved together with a schema
// version; Decode compares the stored version with the current one and hands
// stale payloads to the store's Migrator. Three backends are available:
// SQLite (default, goose-managed schema), bbolt, and an in-memory map.
//
// The backend also keeps a small key/value metadata table used for the
// session and one-time migration markers.
package persist
