package workflows

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"ghdash/core"
	"ghdash/db"
	"ghdash/models"
)

// WorkflowsService owns all persisted rows. Upserts key on the external id;
// the unique constraint in the store is the authority when two deliveries
// race on the same id, and the losing create falls back to an update.
type WorkflowsService struct {
	repositoriesRepo *db.PostgresRepositoriesRepository
	runsRepo         *db.PostgresWorkflowRunsRepository
	jobsRepo         *db.PostgresWorkflowJobsRepository
}

func NewWorkflowsService(
	repositoriesRepo *db.PostgresRepositoriesRepository,
	runsRepo *db.PostgresWorkflowRunsRepository,
	jobsRepo *db.PostgresWorkflowJobsRepository,
) *WorkflowsService {
	return &WorkflowsService{
		repositoriesRepo: repositoriesRepo,
		runsRepo:         runsRepo,
		jobsRepo:         jobsRepo,
	}
}

func (s *WorkflowsService) UpsertRepository(
	ctx context.Context,
	params models.RepositoryParams,
) (*models.Repository, error) {
	log.Printf("📋 Starting to upsert repository with external ID: %d", params.ExternalID)

	if params.ExternalID == 0 {
		return nil, core.NewValidationError(core.CodeInvalidRepositoryData, "repository external id cannot be zero")
	}
	if params.Owner == "" {
		return nil, core.NewValidationError(core.CodeInvalidRepositoryData, "repository owner cannot be empty")
	}
	if params.Name == "" {
		return nil, core.NewValidationError(core.CodeInvalidRepositoryData, "repository name cannot be empty")
	}

	maybeRepository, err := s.repositoriesRepo.GetRepositoryByExternalID(ctx, params.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up repository: %w", err)
	}
	if existing, ok := maybeRepository.Get(); ok {
		updated, err := s.repositoriesRepo.UpdateRepository(ctx, existing.ID, params)
		if err != nil {
			return nil, fmt.Errorf("failed to update repository: %w", err)
		}
		log.Printf("📋 Completed successfully - updated repository %s", updated.ID)
		return updated, nil
	}

	repository := &models.Repository{
		ID:         core.NewID("repo"),
		ExternalID: params.ExternalID,
		Owner:      params.Owner,
		Name:       params.Name,
	}
	if err := s.repositoriesRepo.CreateRepository(ctx, repository); err != nil {
		if db.IsUniqueViolation(err) {
			// A concurrent delivery created the row between our lookup and
			// insert. The constraint is the authority; retry as an update.
			return s.updateRepositoryAfterRace(ctx, params)
		}
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}

	log.Printf("📋 Completed successfully - created repository %s", repository.ID)
	return repository, nil
}

func (s *WorkflowsService) updateRepositoryAfterRace(
	ctx context.Context,
	params models.RepositoryParams,
) (*models.Repository, error) {
	log.Printf("🔁 Repository create lost upsert race for external ID %d, retrying as update", params.ExternalID)

	maybeRepository, err := s.repositoriesRepo.GetRepositoryByExternalID(ctx, params.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up repository after conflict: %w", err)
	}
	existing, ok := maybeRepository.Get()
	if !ok {
		return nil, core.NewConstraintError("repository vanished after unique conflict", core.ErrNotFound)
	}

	updated, err := s.repositoriesRepo.UpdateRepository(ctx, existing.ID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update repository after conflict: %w", err)
	}
	return updated, nil
}

func (s *WorkflowsService) UpsertWorkflowRun(
	ctx context.Context,
	params models.WorkflowRunParams,
) (*models.WorkflowRun, error) {
	log.Printf("📋 Starting to upsert workflow run with external ID: %d", params.ExternalID)

	if params.ExternalID == 0 {
		return nil, core.NewValidationError(core.CodeInvalidRunData, "workflow run external id cannot be zero")
	}
	if params.StartedAt.IsZero() {
		return nil, core.NewValidationError(core.CodeMissingDatetime, "workflow run started_at is required")
	}
	if params.RepositoryID == "" {
		return nil, core.NewValidationError(core.CodeInvalidRunData, "workflow run repository id cannot be empty")
	}

	maybeRun, err := s.runsRepo.GetWorkflowRunByExternalID(ctx, params.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up workflow run: %w", err)
	}
	if existing, ok := maybeRun.Get(); ok {
		updated, err := s.runsRepo.UpdateWorkflowRun(ctx, existing.ID, params)
		if err != nil {
			return nil, fmt.Errorf("failed to update workflow run: %w", err)
		}
		log.Printf("📋 Completed successfully - updated workflow run %s", updated.ID)
		return updated, nil
	}

	run := &models.WorkflowRun{
		ID:           core.NewID("run"),
		ExternalID:   params.ExternalID,
		Name:         params.Name,
		Status:       params.Status,
		Conclusion:   params.Conclusion,
		WorkflowID:   params.WorkflowID,
		Branch:       params.Branch,
		CommitSHA:    params.CommitSHA,
		RunNumber:    params.RunNumber,
		StartedAt:    params.StartedAt,
		CompletedAt:  params.CompletedAt,
		RepositoryID: params.RepositoryID,
	}
	if err := s.runsRepo.CreateWorkflowRun(ctx, run); err != nil {
		if db.IsUniqueViolation(err) {
			return s.updateWorkflowRunAfterRace(ctx, params)
		}
		if db.IsForeignKeyViolation(err) {
			return nil, core.NewConstraintError(
				fmt.Sprintf("workflow run references unknown repository %s", params.RepositoryID), err)
		}
		return nil, fmt.Errorf("failed to create workflow run: %w", err)
	}

	log.Printf("📋 Completed successfully - created workflow run %s", run.ID)
	return run, nil
}

func (s *WorkflowsService) updateWorkflowRunAfterRace(
	ctx context.Context,
	params models.WorkflowRunParams,
) (*models.WorkflowRun, error) {
	log.Printf("🔁 Workflow run create lost upsert race for external ID %d, retrying as update", params.ExternalID)

	maybeRun, err := s.runsRepo.GetWorkflowRunByExternalID(ctx, params.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up workflow run after conflict: %w", err)
	}
	existing, ok := maybeRun.Get()
	if !ok {
		return nil, core.NewConstraintError("workflow run vanished after unique conflict", core.ErrNotFound)
	}

	updated, err := s.runsRepo.UpdateWorkflowRun(ctx, existing.ID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update workflow run after conflict: %w", err)
	}
	return updated, nil
}

func (s *WorkflowsService) UpsertWorkflowJob(
	ctx context.Context,
	params models.WorkflowJobParams,
) (*models.WorkflowJob, error) {
	log.Printf("📋 Starting to upsert workflow job with external ID: %d", params.ExternalID)

	if params.ExternalID == 0 {
		return nil, core.NewValidationError(core.CodeInvalidJobData, "workflow job external id cannot be zero")
	}
	if params.StartedAt.IsZero() {
		return nil, core.NewValidationError(core.CodeMissingDatetime, "workflow job started_at is required")
	}
	if params.WorkflowRunID == "" {
		return nil, core.NewValidationError(core.CodeInvalidJobData, "workflow job run id cannot be empty")
	}

	maybeJob, err := s.jobsRepo.GetWorkflowJobByExternalID(ctx, params.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up workflow job: %w", err)
	}
	if existing, ok := maybeJob.Get(); ok {
		updated, err := s.jobsRepo.UpdateWorkflowJob(ctx, existing.ID, params)
		if err != nil {
			return nil, fmt.Errorf("failed to update workflow job: %w", err)
		}
		log.Printf("📋 Completed successfully - updated workflow job %s", updated.ID)
		return updated, nil
	}

	job := &models.WorkflowJob{
		ID:              core.NewID("job"),
		ExternalID:      params.ExternalID,
		Name:            params.Name,
		Status:          params.Status,
		Conclusion:      params.Conclusion,
		RunnerName:      params.RunnerName,
		RunnerGroupName: params.RunnerGroupName,
		StartedAt:       params.StartedAt,
		CompletedAt:     params.CompletedAt,
		WorkflowRunID:   params.WorkflowRunID,
	}
	if err := s.jobsRepo.CreateWorkflowJob(ctx, job); err != nil {
		if db.IsUniqueViolation(err) {
			return s.updateWorkflowJobAfterRace(ctx, params)
		}
		if db.IsForeignKeyViolation(err) {
			return nil, core.NewConstraintError(
				fmt.Sprintf("workflow job references unknown run %s", params.WorkflowRunID), err)
		}
		return nil, fmt.Errorf("failed to create workflow job: %w", err)
	}

	log.Printf("📋 Completed successfully - created workflow job %s", job.ID)
	return job, nil
}

func (s *WorkflowsService) updateWorkflowJobAfterRace(
	ctx context.Context,
	params models.WorkflowJobParams,
) (*models.WorkflowJob, error) {
	log.Printf("🔁 Workflow job create lost upsert race for external ID %d, retrying as update", params.ExternalID)

	maybeJob, err := s.jobsRepo.GetWorkflowJobByExternalID(ctx, params.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up workflow job after conflict: %w", err)
	}
	existing, ok := maybeJob.Get()
	if !ok {
		return nil, core.NewConstraintError("workflow job vanished after unique conflict", core.ErrNotFound)
	}

	updated, err := s.jobsRepo.UpdateWorkflowJob(ctx, existing.ID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update workflow job after conflict: %w", err)
	}
	return updated, nil
}

func (s *WorkflowsService) GetWorkflowRunByExternalID(
	ctx context.Context,
	externalID int64,
) (mo.Option[*models.WorkflowRun], error) {
	return s.runsRepo.GetWorkflowRunByExternalID(ctx, externalID)
}

func (s *WorkflowsService) GetWorkflowRunByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.WorkflowRun], error) {
	return s.runsRepo.GetWorkflowRunByID(ctx, id)
}

func (s *WorkflowsService) ListRecentWorkflowRuns(
	ctx context.Context,
	limit int,
) ([]*models.WorkflowRun, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	return s.runsRepo.ListRecentWorkflowRuns(ctx, limit)
}

func (s *WorkflowsService) ListWorkflowJobsForRun(
	ctx context.Context,
	workflowRunID string,
) ([]*models.WorkflowJob, error) {
	if workflowRunID == "" {
		return nil, fmt.Errorf("workflow_run_id cannot be empty")
	}
	return s.jobsRepo.ListWorkflowJobsForRun(ctx, workflowRunID)
}
