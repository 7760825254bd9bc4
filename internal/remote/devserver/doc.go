// Package devserver is an in-memory implementation of the sync service for
// local development and end-to-end tests.
//
// Records live in per-user tables keyed by clientId. The user comes from an
// HS256 access token checked by a gRPC interceptor on every call. Every
// change pushes a fresh snapshot to the watchers of the touched table. The
// workout log listing omits the nested exercises, like the production
// listing query does. Nothing is persisted.
package devserver
