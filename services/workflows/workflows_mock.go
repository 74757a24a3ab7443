package workflows

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"ghdash/models"
)

// MockWorkflowsService is a mock implementation of the WorkflowsService interface
type MockWorkflowsService struct {
	mock.Mock
}

func (m *MockWorkflowsService) UpsertRepository(
	ctx context.Context,
	params models.RepositoryParams,
) (*models.Repository, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Repository), args.Error(1)
}

func (m *MockWorkflowsService) UpsertWorkflowRun(
	ctx context.Context,
	params models.WorkflowRunParams,
) (*models.WorkflowRun, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowRun), args.Error(1)
}

func (m *MockWorkflowsService) UpsertWorkflowJob(
	ctx context.Context,
	params models.WorkflowJobParams,
) (*models.WorkflowJob, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowJob), args.Error(1)
}

func (m *MockWorkflowsService) GetWorkflowRunByExternalID(
	ctx context.Context,
	externalID int64,
) (mo.Option[*models.WorkflowRun], error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(mo.Option[*models.WorkflowRun]), args.Error(1)
}

func (m *MockWorkflowsService) GetWorkflowRunByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.WorkflowRun], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.WorkflowRun]), args.Error(1)
}

func (m *MockWorkflowsService) ListRecentWorkflowRuns(
	ctx context.Context,
	limit int,
) ([]*models.WorkflowRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WorkflowRun), args.Error(1)
}

func (m *MockWorkflowsService) ListWorkflowJobsForRun(
	ctx context.Context,
	workflowRunID string,
) ([]*models.WorkflowJob, error) {
	args := m.Called(ctx, workflowRunID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WorkflowJob), args.Error(1)
}
