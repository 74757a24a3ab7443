package models

import (
	"time"
)

// Workflow run statuses as delivered by GitHub. The set is open - unknown
// values are stored as-is.
const (
	WorkflowRunStatusQueued     = "queued"
	WorkflowRunStatusInProgress = "in_progress"
	WorkflowRunStatusCompleted  = "completed"
	WorkflowRunStatusWaiting    = "waiting"
	WorkflowRunStatusRequested  = "requested"
)

type WorkflowRun struct {
	ID           string     `db:"id"            json:"id"`
	ExternalID   int64      `db:"external_id"   json:"external_id"`
	Name         string     `db:"name"          json:"name"`
	Status       string     `db:"status"        json:"status"`
	Conclusion   *string    `db:"conclusion"    json:"conclusion"`
	WorkflowID   int64      `db:"workflow_id"   json:"workflow_id"`
	Branch       string     `db:"branch"        json:"branch"`
	CommitSHA    string     `db:"commit_sha"    json:"commit_sha"`
	RunNumber    int64      `db:"run_number"    json:"run_number"`
	StartedAt    time.Time  `db:"started_at"    json:"started_at"`
	CompletedAt  *time.Time `db:"completed_at"  json:"completed_at"`
	RepositoryID string     `db:"repository_id" json:"repository_id"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"    json:"updated_at"`
}

// WorkflowRunParams carries the mutable attributes for a run upsert.
// RepositoryID is the internal id of the owning repository row.
type WorkflowRunParams struct {
	ExternalID   int64
	Name         string
	Status       string
	Conclusion   *string
	WorkflowID   int64
	Branch       string
	CommitSHA    string
	RunNumber    int64
	StartedAt    time.Time
	CompletedAt  *time.Time
	RepositoryID string
}
