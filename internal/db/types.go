package db

import "time"

// TaskRecord is one persisted workflow run. State holds the serialized
// workflow state as a JSON blob so the schema never chases the domain types.
type TaskRecord struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"project_name"`
	Status      string    `json:"status"`
	State       []byte    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store defines the methods for persistent task storage.
type Store interface {
	Close() error
	SaveTask(rec TaskRecord) error
	GetTask(id string) (TaskRecord, error)
	ListTasks(limit int) ([]TaskRecord, error)
	DeleteTask(id string) error
}
