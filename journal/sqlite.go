package journal

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradebook/ledger"
)

// SQLite is the ledger.Store implementation backing the journal. One handle
// serves plain reads; mutations go through Begin so the trade write and the
// recompute pass commit as a unit.
type SQLite struct {
	queries
	db *sql.DB
}

var _ ledger.Store = (*SQLite)(nil)

// Open opens (or creates) the journal database at path and applies the
// schema.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// busy_timeout keeps concurrent read-while-write from failing
	// immediately with SQLITE_BUSY.
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{queries: queries{r: db}, db: db}, nil
}

// Begin starts a transaction-scoped view of the store.
func (s *SQLite) Begin(ctx context.Context) (ledger.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{queries: queries{r: tx}, tx: tx}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type sqliteTx struct {
	queries
	tx *sql.Tx
}

func (t *sqliteTx) Commit() error { return t.tx.Commit() }

// Rollback after a successful Commit is a no-op, so callers can defer it.
func (t *sqliteTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
