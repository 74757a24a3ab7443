package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	"ghdash/core"
	dbtx "ghdash/db/tx"
	"ghdash/models"
)

type PostgresWorkflowRunsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for workflow_runs table
var workflowRunsColumns = []string{
	"id",
	"external_id",
	"name",
	"status",
	"conclusion",
	"workflow_id",
	"branch",
	"commit_sha",
	"run_number",
	"started_at",
	"completed_at",
	"repository_id",
	"created_at",
	"updated_at",
}

func NewPostgresWorkflowRunsRepository(db *sqlx.DB, schema string) *PostgresWorkflowRunsRepository {
	return &PostgresWorkflowRunsRepository{db: db, schema: schema}
}

func (r *PostgresWorkflowRunsRepository) CreateWorkflowRun(ctx context.Context, run *models.WorkflowRun) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(workflowRunsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.workflow_runs 
			(id, external_id, name, status, conclusion, workflow_id, branch, commit_sha, 
			 run_number, started_at, completed_at, repository_id, created_at, updated_at) 
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW()) 
		RETURNING %s`, r.schema, returningStr)

	var created models.WorkflowRun
	err := db.QueryRowxContext(ctx, query,
		run.ID, run.ExternalID, run.Name, run.Status, run.Conclusion, run.WorkflowID,
		run.Branch, run.CommitSHA, run.RunNumber, run.StartedAt, run.CompletedAt, run.RepositoryID).
		StructScan(&created)
	if err != nil {
		return fmt.Errorf("failed to create workflow run: %w", err)
	}

	*run = created
	return nil
}

func (r *PostgresWorkflowRunsRepository) GetWorkflowRunByExternalID(
	ctx context.Context,
	externalID int64,
) (mo.Option[*models.WorkflowRun], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(workflowRunsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.workflow_runs 
		WHERE external_id = $1`, columnsStr, r.schema)

	var run models.WorkflowRun
	err := db.GetContext(ctx, &run, query, externalID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.WorkflowRun](), nil
		}
		return mo.None[*models.WorkflowRun](), fmt.Errorf("failed to get workflow run: %w", err)
	}

	return mo.Some(&run), nil
}

func (r *PostgresWorkflowRunsRepository) GetWorkflowRunByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.WorkflowRun], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(workflowRunsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.workflow_runs 
		WHERE id = $1`, columnsStr, r.schema)

	var run models.WorkflowRun
	err := db.GetContext(ctx, &run, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.WorkflowRun](), nil
		}
		return mo.None[*models.WorkflowRun](), fmt.Errorf("failed to get workflow run: %w", err)
	}

	return mo.Some(&run), nil
}

// UpdateWorkflowRun replaces all mutable fields of the row identified by id.
// The external id and owning repository are left untouched: a later event for
// the same run may carry a repository sub-object, but the run keeps the parent
// it was first attached to.
func (r *PostgresWorkflowRunsRepository) UpdateWorkflowRun(
	ctx context.Context,
	id string,
	params models.WorkflowRunParams,
) (*models.WorkflowRun, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(workflowRunsColumns, ", ")

	query := fmt.Sprintf(`
		UPDATE %s.workflow_runs 
		SET name = $2, status = $3, conclusion = $4, workflow_id = $5, branch = $6, 
			commit_sha = $7, run_number = $8, started_at = $9, completed_at = $10, 
			updated_at = NOW() 
		WHERE id = $1 
		RETURNING %s`, r.schema, returningStr)

	var updated models.WorkflowRun
	err := db.QueryRowxContext(ctx, query,
		id, params.Name, params.Status, params.Conclusion, params.WorkflowID,
		params.Branch, params.CommitSHA, params.RunNumber, params.StartedAt, params.CompletedAt).
		StructScan(&updated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("workflow run %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update workflow run: %w", err)
	}

	return &updated, nil
}

// ListRecentWorkflowRuns returns the newest runs first, bounded by limit.
func (r *PostgresWorkflowRunsRepository) ListRecentWorkflowRuns(
	ctx context.Context,
	limit int,
) ([]*models.WorkflowRun, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(workflowRunsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.workflow_runs 
		ORDER BY started_at DESC 
		LIMIT $1`, columnsStr, r.schema)

	var runs []*models.WorkflowRun
	err := db.SelectContext(ctx, &runs, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent workflow runs: %w", err)
	}

	return runs, nil
}
