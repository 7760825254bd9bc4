package persist

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// Namespaces of the on-device stores.
const (
	NamespaceExercises    = "exercise-library"
	NamespaceTemplates    = "workout-templates"
	NamespaceHistory      = "workout-history"
	NamespaceRecipes      = "recipes"
	NamespaceMeals        = "meal-logs"
	NamespaceGoals        = "nutrition-goals"
	NamespaceSettings     = "app-settings"
	NamespaceSubscription = "subscription"
	NamespaceOnboarding   = "onboarding"
	NamespaceSyncMetadata = "sync-metadata"
)

// Storage kinds accepted by Open.
const (
	StorageSQLite = "sqlite"
	StorageBolt   = "bolt"
	StorageMemory = "memory"
)

// Envelope is one persisted namespace.
type Envelope struct {
	Namespace string    `json:"namespace"`
	Version   int       `json:"version"`
	Payload   []byte    `json:"payload"`
	SavedAt   time.Time `json:"saved_at"`
}

// Backend is durable key-value storage for store state and metadata.
type Backend interface {
	// Load returns the envelope for namespace; ok is false if nothing was saved.
	Load(ctx context.Context, namespace string) (env Envelope, ok bool, err error)
	Save(ctx context.Context, env Envelope) error
	Delete(ctx context.Context, namespace string) error

	// GetMeta returns nil, nil when key is absent.
	GetMeta(ctx context.Context, key string) ([]byte, error)
	SetMeta(ctx context.Context, key string, value []byte) error
	DeleteMeta(ctx context.Context, key string) error

	// Clear drops every namespace and metadata key.
	Clear(ctx context.Context) error
	Close() error
}

// Open creates the backend of the given kind under dir.
func Open(ctx context.Context, kind, dir string) (Backend, error) {
	switch kind {
	case "", StorageSQLite:
		return NewSQLiteBackend(ctx, filepath.Join(dir, "fitkeeper.db"))
	case StorageBolt:
		return NewBoltBackend(filepath.Join(dir, "fitkeeper.bolt"))
	case StorageMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", kind)
	}
}
