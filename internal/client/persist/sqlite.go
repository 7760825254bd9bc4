package persist

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fitkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/fitkeeper/internal/dbx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// RunMigrations applies the embedded schema migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// SQLiteBackend stores envelopes in an on-device SQLite database.
type SQLiteBackend struct {
	db       *sql.DB
	state    *stateRepository
	metadata *metadataRepository
}

// NewSQLiteBackend opens (creating if needed) the database at dsn and
// migrates it to the latest schema.
func NewSQLiteBackend(ctx context.Context, dsn string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}

	return &SQLiteBackend{
		db:       db,
		state:    &stateRepository{db: db},
		metadata: &metadataRepository{db: db},
	}, nil
}

func (b *SQLiteBackend) Load(ctx context.Context, namespace string) (Envelope, bool, error) {
	return b.state.Get(ctx, namespace)
}

func (b *SQLiteBackend) Save(ctx context.Context, env Envelope) error {
	return b.state.Put(ctx, env)
}

func (b *SQLiteBackend) Delete(ctx context.Context, namespace string) error {
	return b.state.Delete(ctx, namespace)
}

func (b *SQLiteBackend) GetMeta(ctx context.Context, key string) ([]byte, error) {
	return b.metadata.Get(ctx, key)
}

func (b *SQLiteBackend) SetMeta(ctx context.Context, key string, value []byte) error {
	return b.metadata.Set(ctx, key, value)
}

func (b *SQLiteBackend) DeleteMeta(ctx context.Context, key string) error {
	return b.metadata.Delete(ctx, key)
}

func (b *SQLiteBackend) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := (&stateRepository{db: tx}).Clear(ctx); err != nil {
			return err
		}
		return (&metadataRepository{db: tx}).Clear(ctx)
	})
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
