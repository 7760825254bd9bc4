package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/dbx"
)

type stateRepository struct {
	db dbx.DBTX
}

func (r *stateRepository) Get(ctx context.Context, namespace string) (Envelope, bool, error) {
	env := Envelope{Namespace: namespace}
	var savedAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT version, payload, saved_at FROM state WHERE namespace = ?`, namespace,
	).Scan(&env.Version, &env.Payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Envelope{}, false, nil
	}
	if err != nil {
		return Envelope{}, false, fmt.Errorf("failed to get state[%s]: %w", namespace, err)
	}

	env.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
	return env, true, nil
}

func (r *stateRepository) Put(ctx context.Context, env Envelope) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO state (namespace, version, payload, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`, env.Namespace, env.Version, env.Payload, env.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save state[%s]: %w", env.Namespace, err)
	}
	return nil
}

func (r *stateRepository) Delete(ctx context.Context, namespace string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM state WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("failed to delete state[%s]: %w", namespace, err)
	}
	return nil
}

func (r *stateRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM state`); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}

type metadataRepository struct {
	db dbx.DBTX
}

func (r *metadataRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *metadataRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *metadataRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *metadataRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}
