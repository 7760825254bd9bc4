package persist

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	ctx := context.Background()

	sqliteB, err := NewSQLiteBackend(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	boltB, err := NewBoltBackend(filepath.Join(t.TempDir(), "state.bolt"))
	require.NoError(t, err)

	all := map[string]Backend{
		StorageSQLite: sqliteB,
		StorageBolt:   boltB,
		StorageMemory: NewMemoryBackend(),
	}
	t.Cleanup(func() {
		for _, b := range all {
			_ = b.Close()
		}
	})
	return all
}

func TestBackend_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	saved := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := b.Load(ctx, NamespaceHistory)
			require.NoError(t, err)
			require.False(t, ok)

			env := Envelope{Namespace: NamespaceHistory, Version: 2, Payload: []byte(`[1,2]`), SavedAt: saved}
			require.NoError(t, b.Save(ctx, env))

			got, ok, err := b.Load(ctx, NamespaceHistory)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, 2, got.Version)
			require.Equal(t, []byte(`[1,2]`), got.Payload)
			require.True(t, saved.Equal(got.SavedAt))

			env.Version = 3
			env.Payload = []byte(`[]`)
			require.NoError(t, b.Save(ctx, env))
			got, _, err = b.Load(ctx, NamespaceHistory)
			require.NoError(t, err)
			require.Equal(t, 3, got.Version)

			require.NoError(t, b.Delete(ctx, NamespaceHistory))
			require.NoError(t, b.Delete(ctx, NamespaceHistory))
			_, ok, err = b.Load(ctx, NamespaceHistory)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestBackend_Metadata(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, err := b.GetMeta(ctx, "missing")
			require.NoError(t, err)
			require.Nil(t, v)

			require.NoError(t, b.SetMeta(ctx, "k", []byte("v1")))
			require.NoError(t, b.SetMeta(ctx, "k", []byte("v2")))
			v, err = b.GetMeta(ctx, "k")
			require.NoError(t, err)
			require.Equal(t, []byte("v2"), v)

			require.NoError(t, b.DeleteMeta(ctx, "k"))
			v, err = b.GetMeta(ctx, "k")
			require.NoError(t, err)
			require.Nil(t, v)
		})
	}
}

func TestBackend_Clear(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Save(ctx, Envelope{Namespace: NamespaceRecipes, Version: 1, Payload: []byte(`{}`)}))
			require.NoError(t, b.SetMeta(ctx, "k", []byte("v")))

			require.NoError(t, b.Clear(ctx))

			_, ok, err := b.Load(ctx, NamespaceRecipes)
			require.NoError(t, err)
			require.False(t, ok)
			v, err := b.GetMeta(ctx, "k")
			require.NoError(t, err)
			require.Nil(t, v)
		})
	}
}

func TestMemoryBackend_CopiesPayload(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	payload := []byte("abc")
	require.NoError(t, b.Save(ctx, Envelope{Namespace: "n", Payload: payload}))
	payload[0] = 'X'

	got, _, err := b.Load(ctx, "n")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), got.Payload)
}

func TestSQLiteBackend_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "state.db")

	b, err := NewSQLiteBackend(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, b.Save(ctx, Envelope{Namespace: NamespaceGoals, Version: 1, Payload: []byte(`{"calories":2000}`)}))
	require.NoError(t, b.Close())

	b, err = NewSQLiteBackend(ctx, dsn)
	require.NoError(t, err)
	defer b.Close()

	got, ok, err := b.Load(ctx, NamespaceGoals)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"calories":2000}`, string(got.Payload))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))

	var n int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('state','metadata','goose_db_version')`,
	).Scan(&n))
	require.Equal(t, 3, n)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, kind := range []string{StorageSQLite, StorageBolt, StorageMemory} {
		b, err := Open(ctx, kind, dir)
		require.NoError(t, err, kind)
		require.NoError(t, b.Close())
	}

	_, err := Open(ctx, "redis", dir)
	require.Error(t, err)
}
