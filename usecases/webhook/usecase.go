package webhook

import (
	"context"
	"fmt"
	"log"
	"time"

	"ghdash/core"
	"ghdash/models"
	"ghdash/pubsub"
	"ghdash/services"
)

// Fallback values for workflow runs synthesized from a job event that arrived
// before its parent run event. The real attributes are unknown until the run
// event shows up; both paths key on the same external run id, so the later
// run event updates the placeholder in place instead of duplicating it.
const (
	placeholderRunName   = "Unknown Workflow"
	placeholderBranch    = "unknown"
	placeholderCommitSHA = "unknown"
)

// WebhookUseCase reconciles webhook deliveries into the entity store,
// tolerant of workflow_job events arriving before their workflow_run event.
// It holds no state across calls; every invocation is payload plus current
// store state.
type WebhookUseCase struct {
	workflowsService services.WorkflowsService
	publisher        pubsub.Publisher
}

func NewWebhookUseCase(workflowsService services.WorkflowsService, publisher pubsub.Publisher) *WebhookUseCase {
	return &WebhookUseCase{
		workflowsService: workflowsService,
		publisher:        publisher,
	}
}

// HandleWorkflowRunEvent upserts the repository, then the run, and publishes
// a run-change notification after the write committed. A failure at any step
// aborts the rest; the repository upsert is deliberately not rolled back.
func (u *WebhookUseCase) HandleWorkflowRunEvent(ctx context.Context, payload map[string]any) error {
	log.Printf("📋 Starting to handle workflow_run event")

	repository, err := u.upsertRepositoryFromPayload(ctx, payload)
	if err != nil {
		return err
	}

	runRaw, ok := asObject(payload["workflow_run"])
	if !ok {
		return core.NewPayloadError(core.CodeMissingRunData, "workflow_run object not found in payload")
	}

	params, err := workflowRunParamsFromPayload(runRaw, repository.ID)
	if err != nil {
		return err
	}

	run, err := u.workflowsService.UpsertWorkflowRun(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to upsert workflow run: %w", err)
	}

	u.publisher.Publish(pubsub.TopicRunChanges, models.ChangeNotification{
		EntityKind: models.EntityKindWorkflowRun,
		EventLabel: eventLabel(payload),
		Entity:     run,
	})

	log.Printf("📋 Completed successfully - workflow run %s (%s)", run.ID, run.Status)
	return nil
}

// HandleWorkflowJobEvent upserts the repository, resolves (or synthesizes)
// the parent run, upserts the job, and publishes a job-change notification.
func (u *WebhookUseCase) HandleWorkflowJobEvent(ctx context.Context, payload map[string]any) error {
	log.Printf("📋 Starting to handle workflow_job event")

	repository, err := u.upsertRepositoryFromPayload(ctx, payload)
	if err != nil {
		return err
	}

	jobRaw, ok := asObject(payload["workflow_job"])
	if !ok {
		return core.NewPayloadError(core.CodeMissingJobData, "workflow_job object not found in payload")
	}

	runExternalID, ok := asInt64(jobRaw["run_id"])
	if !ok {
		return core.NewPayloadError(core.CodeInvalidRunID, "workflow_job run_id is not an integer")
	}

	run, err := u.resolveWorkflowRun(ctx, runExternalID, jobRaw, repository.ID)
	if err != nil {
		return err
	}

	jobExternalID, ok := asInt64(jobRaw["id"])
	if !ok {
		return core.NewPayloadError(core.CodeInvalidJobData, "workflow_job id is not an integer")
	}

	startedAt, err := parseRequiredTime(jobRaw, "started_at")
	if err != nil {
		return err
	}
	completedAt, err := parseOptionalTime(jobRaw, "completed_at")
	if err != nil {
		return err
	}

	job, err := u.workflowsService.UpsertWorkflowJob(ctx, models.WorkflowJobParams{
		ExternalID:      jobExternalID,
		Name:            stringOr(jobRaw["name"], ""),
		Status:          stringOr(jobRaw["status"], ""),
		Conclusion:      optionalString(jobRaw["conclusion"]),
		RunnerName:      optionalString(jobRaw["runner_name"]),
		RunnerGroupName: optionalString(jobRaw["runner_group_name"]),
		StartedAt:       startedAt,
		CompletedAt:     completedAt,
		WorkflowRunID:   run.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert workflow job: %w", err)
	}

	u.publisher.Publish(pubsub.TopicJobChanges, models.ChangeNotification{
		EntityKind: models.EntityKindWorkflowJob,
		EventLabel: eventLabel(payload),
		Entity:     job,
	})

	log.Printf("📋 Completed successfully - workflow job %s (%s)", job.ID, job.Status)
	return nil
}

// upsertRepositoryFromPayload projects the repository sub-object into typed
// attributes and upserts it. Both event kinds share this step.
func (u *WebhookUseCase) upsertRepositoryFromPayload(
	ctx context.Context,
	payload map[string]any,
) (*models.Repository, error) {
	repoRaw, ok := asObject(payload["repository"])
	if !ok {
		return nil, core.NewPayloadError(core.CodeMissingRepositoryData, "repository object not found in payload")
	}

	externalID, ok := asInt64(repoRaw["id"])
	if !ok {
		return nil, core.NewPayloadError(core.CodeInvalidRepositoryData, "repository id is not an integer")
	}

	ownerRaw, ok := asObject(repoRaw["owner"])
	if !ok {
		return nil, core.NewPayloadError(core.CodeInvalidRepositoryData, "repository owner object not found")
	}
	owner, ok := asString(ownerRaw["login"])
	if !ok || owner == "" {
		return nil, core.NewPayloadError(core.CodeInvalidRepositoryData, "repository owner login not found")
	}
	name, ok := asString(repoRaw["name"])
	if !ok || name == "" {
		return nil, core.NewPayloadError(core.CodeInvalidRepositoryData, "repository name not found")
	}

	repository, err := u.workflowsService.UpsertRepository(ctx, models.RepositoryParams{
		ExternalID: externalID,
		Owner:      owner,
		Name:       name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert repository: %w", err)
	}
	return repository, nil
}

// resolveWorkflowRun finds the parent run for a job event, synthesizing a
// placeholder run when the run event has not arrived yet. The placeholder
// path never fails on a bad start timestamp - job ingestion must not block
// on attributes we are guessing anyway.
func (u *WebhookUseCase) resolveWorkflowRun(
	ctx context.Context,
	runExternalID int64,
	jobRaw map[string]any,
	repositoryID string,
) (*models.WorkflowRun, error) {
	maybeRun, err := u.workflowsService.GetWorkflowRunByExternalID(ctx, runExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up workflow run %d: %w", runExternalID, err)
	}
	if run, ok := maybeRun.Get(); ok {
		return run, nil
	}

	log.Printf("⏳ Workflow run %d not seen yet, synthesizing placeholder from job payload", runExternalID)

	startedAt := time.Now().UTC()
	if parsed, err := parseRequiredTime(jobRaw, "started_at"); err == nil {
		startedAt = parsed
	}

	run, err := u.workflowsService.UpsertWorkflowRun(ctx, models.WorkflowRunParams{
		ExternalID:   runExternalID,
		Name:         stringOr(jobRaw["workflow_name"], placeholderRunName),
		Status:       models.WorkflowRunStatusInProgress,
		WorkflowID:   0,
		Branch:       stringOr(jobRaw["head_branch"], placeholderBranch),
		CommitSHA:    stringOr(jobRaw["head_sha"], placeholderCommitSHA),
		RunNumber:    0,
		StartedAt:    startedAt,
		RepositoryID: repositoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize workflow run %d: %w", runExternalID, err)
	}
	return run, nil
}

func workflowRunParamsFromPayload(runRaw map[string]any, repositoryID string) (models.WorkflowRunParams, error) {
	externalID, ok := asInt64(runRaw["id"])
	if !ok {
		return models.WorkflowRunParams{}, core.NewPayloadError(core.CodeInvalidRunData, "workflow_run id is not an integer")
	}

	startedAt, err := parseRequiredTime(runRaw, "run_started_at")
	if err != nil {
		return models.WorkflowRunParams{}, err
	}
	completedAt, err := parseOptionalTime(runRaw, "completed_at")
	if err != nil {
		return models.WorkflowRunParams{}, err
	}

	workflowID, _ := asInt64(runRaw["workflow_id"])
	runNumber, _ := asInt64(runRaw["run_number"])

	return models.WorkflowRunParams{
		ExternalID:   externalID,
		Name:         stringOr(runRaw["name"], ""),
		Status:       stringOr(runRaw["status"], ""),
		Conclusion:   optionalString(runRaw["conclusion"]),
		WorkflowID:   workflowID,
		Branch:       stringOr(runRaw["head_branch"], ""),
		CommitSHA:    stringOr(runRaw["head_sha"], ""),
		RunNumber:    runNumber,
		StartedAt:    startedAt,
		CompletedAt:  completedAt,
		RepositoryID: repositoryID,
	}, nil
}

// eventLabel derives the coarse lifecycle label carried on notifications.
func eventLabel(payload map[string]any) string {
	return stringOr(payload["action"], "unknown")
}
