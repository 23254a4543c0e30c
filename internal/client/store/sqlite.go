package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skytrack-dev/skytrack/internal/dbx"
)

// kvRepo is the raw key-value access layer over the storage table. It works
// against either a *sql.DB or a transaction, so ClearAll can run all its
// deletes atomically.
type kvRepo struct {
	db dbx.DBTX
}

func newKVRepo(db dbx.DBTX) *kvRepo {
	return &kvRepo{db: db}
}

// get returns the stored value, or (nil, nil) when the key is absent.
func (r *kvRepo) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get storage[%s]: %w", key, err)
	}
	return value, nil
}

func (r *kvRepo) set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO storage (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set storage[%s]: %w", key, err)
	}
	return nil
}

func (r *kvRepo) delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM storage WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete storage[%s]: %w", key, err)
	}
	return nil
}
