package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/akkafe1ix/HealthPill-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// UpsertUser inserts a user row or refreshes its profile fields.
// created_at is preserved on conflict.
func (r *SQLiteRepo) UpsertUser(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("nil user")
	}

	created := u.CreatedAt.UTC().Unix()
	if u.CreatedAt.IsZero() {
		created = time.Now().UTC().Unix()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, first_name, last_name, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			username   = excluded.username,
			first_name = excluded.first_name,
			last_name  = excluded.last_name`,
		u.ID, u.Username, u.FirstName, u.LastName, created,
	)
	return err
}

// AddMedication inserts an active medication row and returns its id.
func (r *SQLiteRepo) AddMedication(ctx context.Context, m *domain.Medication) (int64, error) {
	if m == nil {
		return 0, errors.New("nil medication")
	}

	created := m.CreatedAt.UTC().Unix()
	if m.CreatedAt.IsZero() {
		created = time.Now().UTC().Unix()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (user_id, name, dosage, schedule, is_active, created_at)
		VALUES (?, ?, ?, ?, 1, ?)`,
		m.UserID, m.Name, m.Dosage, m.Schedule, created,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListActive returns the user's active medications, newest first.
func (r *SQLiteRepo) ListActive(ctx context.Context, userID int64) ([]domain.Medication, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE user_id = ? AND is_active = 1
		ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectMedications(rows)
}

// ListAllActive returns active medications for every user, for trigger rebuilds.
func (r *SQLiteRepo) ListAllActive(ctx context.Context) ([]domain.Medication, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE is_active = 1
		ORDER BY user_id, id`,
	)
	if err != nil {
		return nil, err
	}
	return collectMedications(rows)
}

// GetMedication returns an active medication scoped to its owner.
// A foreign or unknown id yields ErrNotFound.
func (r *SQLiteRepo) GetMedication(ctx context.Context, id, userID int64) (*domain.Medication, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE id = ? AND user_id = ? AND is_active = 1`,
		id, userID,
	)
	m, err := scanMedication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMedication deactivates the medication if it belongs to userID.
func (r *SQLiteRepo) DeleteMedication(ctx context.Context, id, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET is_active = 0
		WHERE id = ? AND user_id = ? AND is_active = 1`,
		id, userID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
