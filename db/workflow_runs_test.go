package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghdash/core"
	"ghdash/db"
	"ghdash/models"
	"ghdash/testutils"
)

func setupDB(t *testing.T) (*db.PostgresRepositoriesRepository, *db.PostgresWorkflowRunsRepository, *db.PostgresWorkflowJobsRepository) {
	cfg, err := testutils.LoadTestConfig()
	if err != nil {
		t.Skipf("Skipping integration test: %v", err)
	}

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { dbConn.Close() })

	return db.NewPostgresRepositoriesRepository(dbConn, cfg.DatabaseSchema),
		db.NewPostgresWorkflowRunsRepository(dbConn, cfg.DatabaseSchema),
		db.NewPostgresWorkflowJobsRepository(dbConn, cfg.DatabaseSchema)
}

func TestWorkflowRunsRepository_DuplicateExternalID(t *testing.T) {
	reposRepo, runsRepo, _ := setupDB(t)
	ctx := context.Background()

	repo := testutils.CreateTestRepository(t, reposRepo)
	run := testutils.CreateTestWorkflowRun(t, runsRepo, repo.ID)

	duplicate := &models.WorkflowRun{
		ID:           core.NewID("run"),
		ExternalID:   run.ExternalID,
		RepositoryID: repo.ID,
		Name:         "duplicate",
		Status:       models.WorkflowRunStatusQueued,
		Branch:       "main",
		CommitSHA:    "deadbeef",
		StartedAt:    time.Now().UTC(),
	}
	err := runsRepo.CreateWorkflowRun(ctx, duplicate)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err), "Duplicate external_id should surface as a unique violation")
}

func TestWorkflowRunsRepository_UnknownRepositoryFK(t *testing.T) {
	_, runsRepo, _ := setupDB(t)
	ctx := context.Background()

	run := &models.WorkflowRun{
		ID:           core.NewID("run"),
		ExternalID:   testutils.RandomExternalID(),
		RepositoryID: core.NewID("repo"), // never persisted
		Name:         "orphan",
		Status:       models.WorkflowRunStatusQueued,
		Branch:       "main",
		CommitSHA:    "deadbeef",
		StartedAt:    time.Now().UTC(),
	}
	err := runsRepo.CreateWorkflowRun(ctx, run)
	require.Error(t, err)
	assert.True(t, db.IsForeignKeyViolation(err))
}

func TestWorkflowRunsRepository_GetByExternalID_NotFound(t *testing.T) {
	_, runsRepo, _ := setupDB(t)

	maybeRun, err := runsRepo.GetWorkflowRunByExternalID(context.Background(), testutils.RandomExternalID())
	require.NoError(t, err)
	assert.True(t, maybeRun.IsAbsent(), "Lookup miss should be None, not an error")
}

func TestWorkflowRunsRepository_UpdateMissingRow(t *testing.T) {
	_, runsRepo, _ := setupDB(t)

	_, err := runsRepo.UpdateWorkflowRun(context.Background(), core.NewID("run"), models.WorkflowRunParams{
		Name:      "ghost",
		Status:    models.WorkflowRunStatusQueued,
		StartedAt: time.Now().UTC(),
	})
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}

func TestWorkflowJobsRepository_ListOrderedByStartedAt(t *testing.T) {
	reposRepo, runsRepo, jobsRepo := setupDB(t)
	ctx := context.Background()

	repo := testutils.CreateTestRepository(t, reposRepo)
	run := testutils.CreateTestWorkflowRun(t, runsRepo, repo.ID)

	base := time.Now().UTC().Truncate(time.Second)
	later := &models.WorkflowJob{
		ID:            core.NewID("job"),
		ExternalID:    testutils.RandomExternalID(),
		WorkflowRunID: run.ID,
		Name:          "deploy",
		Status:        models.WorkflowRunStatusQueued,
		StartedAt:     base.Add(time.Minute),
	}
	require.NoError(t, jobsRepo.CreateWorkflowJob(ctx, later))

	earlier := &models.WorkflowJob{
		ID:            core.NewID("job"),
		ExternalID:    testutils.RandomExternalID(),
		WorkflowRunID: run.ID,
		Name:          "build",
		Status:        models.WorkflowRunStatusCompleted,
		StartedAt:     base,
	}
	require.NoError(t, jobsRepo.CreateWorkflowJob(ctx, earlier))

	jobs, err := jobsRepo.ListWorkflowJobsForRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "build", jobs[0].Name)
	assert.Equal(t, "deploy", jobs[1].Name)
}
