package models

import (
	"time"
)

type WorkflowJob struct {
	ID              string     `db:"id"                json:"id"`
	ExternalID      int64      `db:"external_id"       json:"external_id"`
	Name            string     `db:"name"              json:"name"`
	Status          string     `db:"status"            json:"status"`
	Conclusion      *string    `db:"conclusion"        json:"conclusion"`
	RunnerName      *string    `db:"runner_name"       json:"runner_name"`
	RunnerGroupName *string    `db:"runner_group_name" json:"runner_group_name"`
	StartedAt       time.Time  `db:"started_at"        json:"started_at"`
	CompletedAt     *time.Time `db:"completed_at"      json:"completed_at"`
	WorkflowRunID   string     `db:"workflow_run_id"   json:"workflow_run_id"`
	CreatedAt       time.Time  `db:"created_at"        json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"        json:"updated_at"`
}

// WorkflowJobParams carries the mutable attributes for a job upsert.
// WorkflowRunID is the internal id of the owning workflow run row.
type WorkflowJobParams struct {
	ExternalID      int64
	Name            string
	Status          string
	Conclusion      *string
	RunnerName      *string
	RunnerGroupName *string
	StartedAt       time.Time
	CompletedAt     *time.Time
	WorkflowRunID   string
}
