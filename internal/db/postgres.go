package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the database and applies migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS workflow_tasks (
		id TEXT PRIMARY KEY,
		project_name TEXT NOT NULL,
		status TEXT NOT NULL,
		state TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveTask inserts or replaces a task record.
func (s *PostgresStore) SaveTask(rec TaskRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.UpdatedAt = time.Now()

	query := `INSERT INTO workflow_tasks (id, project_name, status, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			project_name = EXCLUDED.project_name,
			status = EXCLUDED.status,
			state = EXCLUDED.state,
			updated_at = EXCLUDED.updated_at`
	_, err := s.db.Exec(query, rec.ID, rec.ProjectName, rec.Status, string(rec.State), rec.CreatedAt, rec.UpdatedAt)
	return err
}

// GetTask fetches a task by id.
func (s *PostgresStore) GetTask(id string) (TaskRecord, error) {
	var rec TaskRecord
	var state string
	query := `SELECT id, project_name, status, state, created_at, updated_at FROM workflow_tasks WHERE id = $1`
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
func (s *PostgresStore) ListTasks(limit int) ([]TaskRecord, error) {
	query := `SELECT id, project_name, status, state, created_at, updated_at FROM workflow_tasks ORDER BY updated_at DESC LIMIT $1`
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
func (s *PostgresStore) DeleteTask(id string) error {
	_, err := s.db.Exec(`DELETE FROM workflow_tasks WHERE id = $1`, id)
	return err
}
