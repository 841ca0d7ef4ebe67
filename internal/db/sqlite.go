package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database and applies migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS workflow_tasks (
		id TEXT PRIMARY KEY,
		project_name TEXT NOT NULL,
		status TEXT NOT NULL,
		state TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveTask inserts or replaces a task record.
func (s *SQLiteStore) SaveTask(rec TaskRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.UpdatedAt = time.Now()

	query := `INSERT INTO workflow_tasks (id, project_name, status, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_name = excluded.project_name,
			status = excluded.status,
			state = excluded.state,
			updated_at = excluded.updated_at`
	_, err := s.db.Exec(query, rec.ID, rec.ProjectName, rec.Status, string(rec.State), rec.CreatedAt, rec.UpdatedAt)
	return err
}

// GetTask fetches a task by id.
func (s *SQLiteStore) GetTask(id string) (TaskRecord, error) {
	var rec TaskRecord
	var state string
	query := `SELECT id, project_name, status, state, created_at, updated_at FROM workflow_tasks WHERE id = ?`
	err := s.db.QueryRow(query, id).Scan(&rec.ID, &rec.ProjectName, &rec.Status, &state, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return rec, fmt.Errorf("task not found: %s", id)
	}
	if err != nil {
		return rec, err
	}
	rec.State = []byte(state)
	return rec, nil
}

// ListTasks returns the most recently updated tasks.
func (s *SQLiteStore) ListTasks(limit int) ([]TaskRecord, error) {
	query := `SELECT id, project_name, status, state, created_at, updated_at FROM workflow_tasks ORDER BY updated_at DESC LIMIT ?`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []TaskRecord
	for rows.Next() {
		var rec TaskRecord
		var state string
		if err := rows.Scan(&rec.ID, &rec.ProjectName, &rec.Status, &state, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.State = []byte(state)
		results = append(results, rec)
	}
	return results, rows.Err()
}

// DeleteTask removes a task by id.
func (s *SQLiteStore) DeleteTask(id string) error {
	_, err := s.db.Exec(`DELETE FROM workflow_tasks WHERE id = ?`, id)
	return err
}
