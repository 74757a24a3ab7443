package services

import (
	"context"

	"github.com/samber/mo"

	"ghdash/models"
)

// WorkflowsService defines the interface for repository / workflow run /
// workflow job persistence operations
type WorkflowsService interface {
	UpsertRepository(ctx context.Context, params models.RepositoryParams) (*models.Repository, error)
	UpsertWorkflowRun(ctx context.Context, params models.WorkflowRunParams) (*models.WorkflowRun, error)
	UpsertWorkflowJob(ctx context.Context, params models.WorkflowJobParams) (*models.WorkflowJob, error)
	GetWorkflowRunByExternalID(ctx context.Context, externalID int64) (mo.Option[*models.WorkflowRun], error)
	GetWorkflowRunByID(ctx context.Context, id string) (mo.Option[*models.WorkflowRun], error)
	ListRecentWorkflowRuns(ctx context.Context, limit int) ([]*models.WorkflowRun, error)
	ListWorkflowJobsForRun(ctx context.Context, workflowRunID string) ([]*models.WorkflowJob, error)
}
