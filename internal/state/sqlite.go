package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jaki95/hls-asset-manager/internal/asset"
)

type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) a SQLite database at dsn.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	s, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate download states: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
    CREATE TABLE IF NOT EXISTS download_states (
        asset_name TEXT PRIMARY KEY,
        state TEXT NOT NULL,
        updated_at DATETIME NOT NULL
    );`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

func (s *SQLiteStore) State(ctx context.Context, name string) (asset.DownloadState, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM download_states WHERE asset_name = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return asset.NotDownloaded, false, nil
	}
	if err != nil {
		return asset.NotDownloaded, false, fmt.Errorf("failed to read download state: %w", err)
	}

	st, err := asset.ParseDownloadState(raw)
	if err != nil {
		return asset.NotDownloaded, false, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, name, err)
	}
	return st, true, nil
}

func (s *SQLiteStore) SetState(ctx context.Context, name string, st asset.DownloadState) error {
	if err := validate(name, st); err != nil {
		return err
	}

	query := `INSERT INTO download_states (asset_name, state, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(asset_name) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`
	_, err := s.db.ExecContext(ctx, query, name, string(st), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write download state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM download_states WHERE asset_name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete download state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) All(ctx context.Context) (map[string]asset.DownloadState, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT asset_name, state FROM download_states`)
	if err != nil {
		return nil, fmt.Errorf("failed to list download states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]asset.DownloadState)
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, err
		}
		st, err := asset.ParseDownloadState(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, name, err)
		}
		result[name] = st
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
