package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// LocalStorage is a persistent string key-value store.
type LocalStorage struct {
	db DBTX
}

func NewLocalStorage(db DBTX) *LocalStorage {
	return &LocalStorage{db: db}
}

// GetItem returns the stored value and whether it exists.
func (s *LocalStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get item[%s]: %w", key, err)
	}
	return value, true, nil
}

// SetItem writes value under key, overwriting any previous value.
func (s *LocalStorage) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_storage (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set item[%s]: %w", key, err)
	}
	return nil
}

// RemoveItem deletes key. Removing an absent key is a no-op.
func (s *LocalStorage) RemoveItem(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to remove item[%s]: %w", key, err)
	}
	return nil
}
