package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/covyhq/covy/internal/dbx"
)

var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository works against either a *sql.DB or a *sql.Tx so several
// writes can share one transaction via dbx.WithTx.
type SQLiteRepository struct {
	db dbx.DBTX
	// conn is set when db is a *sql.DB and Update has to open a transaction.
	conn *sql.DB
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	conn, _ := db.(*sql.DB)
	return &SQLiteRepository{db: db, conn: conn}
}

// Update runs fn in a new transaction, or directly when r is already bound
// to one.
func (r *SQLiteRepository) Update(ctx context.Context, fn func(ctx context.Context, r Repository) error) error {
	if r.conn == nil {
		return fn(ctx, r)
	}
	return dbx.WithTx(ctx, r.conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, NewSQLiteRepository(tx))
	})
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set metadata[%s]: %w", key, err)
	}
	return nil
}

// Delete is a no-op for a missing key.
func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("clear metadata: %w", err)
	}
	return nil
}
