package models

import (
	"time"
)

// Repository is a GitHub repository as observed through webhook deliveries.
// ExternalID is the GitHub-assigned id, immutable once set.
type Repository struct {
	ID         string    `db:"id"          json:"id"`
	ExternalID int64     `db:"external_id" json:"external_id"`
	Owner      string    `db:"owner"       json:"owner"`
	Name       string    `db:"name"        json:"name"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
}

// RepositoryParams carries the mutable attributes for a repository upsert.
type RepositoryParams struct {
	ExternalID int64
	Owner      string
	Name       string
}
