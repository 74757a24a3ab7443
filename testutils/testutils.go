package testutils

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"ghdash/config"
	"ghdash/core"
	"ghdash/db"
	"ghdash/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

// LoadTestConfig loads configuration for tests from environment variables
func LoadTestConfig() (*config.AppConfig, error) {
	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../.env.test") // From package directories
	_ = godotenv.Load(".env.test")    // From root directory
	_ = godotenv.Load()               // Default .env file

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return nil, fmt.Errorf("DB_SCHEMA is not set")
	}

	return &config.AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
	}, nil
}

// RandomExternalID returns a GitHub-style numeric ID unlikely to collide
// across test runs sharing a database.
func RandomExternalID() int64 {
	return time.Now().UnixNano() + rand.Int63n(1_000_000)
}

// CreateTestRepository creates a test repository with a unique external ID
// to avoid constraint violations
func CreateTestRepository(t *testing.T, reposRepo *db.PostgresRepositoriesRepository) *models.Repository {
	repo := &models.Repository{
		ID:         core.NewID("repo"),
		ExternalID: RandomExternalID(),
		Owner:      "test-owner-" + uuid.New().String(),
		Name:       "test-repo-" + uuid.New().String(),
	}
	err := reposRepo.CreateRepository(context.Background(), repo)
	require.NoError(t, err, "Failed to create test repository")
	return repo
}

// CreateTestWorkflowRun creates a test workflow run attached to the given repository
func CreateTestWorkflowRun(
	t *testing.T,
	runsRepo *db.PostgresWorkflowRunsRepository,
	repositoryID string,
) *models.WorkflowRun {
	run := &models.WorkflowRun{
		ID:           core.NewID("run"),
		ExternalID:   RandomExternalID(),
		RepositoryID: repositoryID,
		Name:         "Test Workflow",
		Status:       models.WorkflowRunStatusInProgress,
		WorkflowID:   RandomExternalID(),
		RunNumber:    1,
		Branch:       "main",
		CommitSHA:    uuid.New().String(),
		StartedAt:    time.Now().UTC().Truncate(time.Second),
	}
	err := runsRepo.CreateWorkflowRun(context.Background(), run)
	require.NoError(t, err, "Failed to create test workflow run")
	return run
}

// CreateTestWorkflowJob creates a test workflow job attached to the given run
func CreateTestWorkflowJob(
	t *testing.T,
	jobsRepo *db.PostgresWorkflowJobsRepository,
	workflowRunID string,
) *models.WorkflowJob {
	job := &models.WorkflowJob{
		ID:            core.NewID("job"),
		ExternalID:    RandomExternalID(),
		WorkflowRunID: workflowRunID,
		Name:          "test-job-" + uuid.New().String(),
		Status:        models.WorkflowRunStatusInProgress,
		StartedAt:     time.Now().UTC().Truncate(time.Second),
	}
	err := jobsRepo.CreateWorkflowJob(context.Background(), job)
	require.NoError(t, err, "Failed to create test workflow job")
	return job
}
