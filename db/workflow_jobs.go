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

type PostgresWorkflowJobsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for workflow_jobs table
var workflowJobsColumns = []string{
	"id",
	"external_id",
	"name",
	"status",
	"conclusion",
	"runner_name",
	"runner_group_name",
	"started_at",
	"completed_at",
	"workflow_run_id",
	"created_at",
	"updated_at",
}

func NewPostgresWorkflowJobsRepository(db *sqlx.DB, schema string) *PostgresWorkflowJobsRepository {
	return &PostgresWorkflowJobsRepository{db: db, schema: schema}
}

func (r *PostgresWorkflowJobsRepository) CreateWorkflowJob(ctx context.Context, job *models.WorkflowJob) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(workflowJobsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.workflow_jobs 
			(id, external_id, name, status, conclusion, runner_name, runner_group_name, 
			 started_at, completed_at, workflow_run_id, created_at, updated_at) 
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()) 
		RETURNING %s`, r.schema, returningStr)

	var created models.WorkflowJob
	err := db.QueryRowxContext(ctx, query,
		job.ID, job.ExternalID, job.Name, job.Status, job.Conclusion, job.RunnerName,
		job.RunnerGroupName, job.StartedAt, job.CompletedAt, job.WorkflowRunID).
		StructScan(&created)
	if err != nil {
		return fmt.Errorf("failed to create workflow job: %w", err)
	}

	*job = created
	return nil
}

func (r *PostgresWorkflowJobsRepository) GetWorkflowJobByExternalID(
	ctx context.Context,
	externalID int64,
) (mo.Option[*models.WorkflowJob], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(workflowJobsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.workflow_jobs 
		WHERE external_id = $1`, columnsStr, r.schema)

	var job models.WorkflowJob
	err := db.GetContext(ctx, &job, query, externalID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.WorkflowJob](), nil
		}
		return mo.None[*models.WorkflowJob](), fmt.Errorf("failed to get workflow job: %w", err)
	}

	return mo.Some(&job), nil
}

// UpdateWorkflowJob replaces all mutable fields of the row identified by id.
func (r *PostgresWorkflowJobsRepository) UpdateWorkflowJob(
	ctx context.Context,
	id string,
	params models.WorkflowJobParams,
) (*models.WorkflowJob, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(workflowJobsColumns, ", ")

	query := fmt.Sprintf(`
		UPDATE %s.workflow_jobs 
		SET name = $2, status = $3, conclusion = $4, runner_name = $5, 
			runner_group_name = $6, started_at = $7, completed_at = $8, 
			workflow_run_id = $9, updated_at = NOW() 
		WHERE id = $1 
		RETURNING %s`, r.schema, returningStr)

	var updated models.WorkflowJob
	err := db.QueryRowxContext(ctx, query,
		id, params.Name, params.Status, params.Conclusion, params.RunnerName,
		params.RunnerGroupName, params.StartedAt, params.CompletedAt, params.WorkflowRunID).
		StructScan(&updated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("workflow job %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update workflow job: %w", err)
	}

	return &updated, nil
}

// ListWorkflowJobsForRun returns the jobs belonging to a run, oldest first.
func (r *PostgresWorkflowJobsRepository) ListWorkflowJobsForRun(
	ctx context.Context,
	workflowRunID string,
) ([]*models.WorkflowJob, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(workflowJobsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.workflow_jobs 
		WHERE workflow_run_id = $1 
		ORDER BY started_at ASC`, columnsStr, r.schema)

	var jobs []*models.WorkflowJob
	err := db.SelectContext(ctx, &jobs, query, workflowRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow jobs for run: %w", err)
	}

	return jobs, nil
}
