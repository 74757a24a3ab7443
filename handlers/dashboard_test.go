package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ghdash/models"
	"ghdash/services/workflows"
)

func newDashboardRouter(workflowsService *workflows.MockWorkflowsService) *mux.Router {
	handler := NewDashboardAPIHandler(workflowsService)
	router := mux.NewRouter()
	handler.SetupEndpoints(router)
	return router
}

func TestHandleListRecentRuns(t *testing.T) {
	workflowsService := new(workflows.MockWorkflowsService)
	runs := []*models.WorkflowRun{
		{ID: "run_01ABC", ExternalID: 1234567890, Name: "CI", Status: "completed"},
		{ID: "run_01DEF", ExternalID: 1234567891, Name: "Deploy", Status: "in_progress"},
	}
	workflowsService.On("ListRecentWorkflowRuns", mock.Anything, 50).Return(runs, nil)

	rec := httptest.NewRecorder()
	newDashboardRouter(workflowsService).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var decoded []*models.WorkflowRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "run_01ABC", decoded[0].ID)
}

func TestHandleListRecentRunsLimit(t *testing.T) {
	workflowsService := new(workflows.MockWorkflowsService)
	workflowsService.On("ListRecentWorkflowRuns", mock.Anything, 10).Return([]*models.WorkflowRun{}, nil)

	rec := httptest.NewRecorder()
	newDashboardRouter(workflowsService).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs?limit=10", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	workflowsService.AssertExpectations(t)
}

func TestHandleListRecentRunsLimitIsCapped(t *testing.T) {
	workflowsService := new(workflows.MockWorkflowsService)
	workflowsService.On("ListRecentWorkflowRuns", mock.Anything, maxRunsLimit).Return([]*models.WorkflowRun{}, nil)

	rec := httptest.NewRecorder()
	newDashboardRouter(workflowsService).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs?limit=100000", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	workflowsService.AssertExpectations(t)
}

func TestHandleListRecentRunsInvalidLimit(t *testing.T) {
	workflowsService := new(workflows.MockWorkflowsService)

	rec := httptest.NewRecorder()
	newDashboardRouter(workflowsService).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs?limit=abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	workflowsService.AssertNotCalled(t, "ListRecentWorkflowRuns", mock.Anything, mock.Anything)
}

func TestHandleListRecentRunsServiceError(t *testing.T) {
	workflowsService := new(workflows.MockWorkflowsService)
	workflowsService.On("ListRecentWorkflowRuns", mock.Anything, 50).
		Return(nil, errors.New("database connection lost"))

	rec := httptest.NewRecorder()
	newDashboardRouter(workflowsService).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleListRunJobs(t *testing.T) {
	workflowsService := new(workflows.MockWorkflowsService)
	run := &models.WorkflowRun{ID: "run_01ABC"}
	workflowsService.On("GetWorkflowRunByID", mock.Anything, "run_01ABC").Return(mo.Some(run), nil)

	jobs := []*models.WorkflowJob{{ID: "job_01ABC", Name: "build", WorkflowRunID: "run_01ABC"}}
	workflowsService.On("ListWorkflowJobsForRun", mock.Anything, "run_01ABC").Return(jobs, nil)

	rec := httptest.NewRecorder()
	newDashboardRouter(workflowsService).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/run_01ABC/jobs", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded []*models.WorkflowJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "build", decoded[0].Name)
}

func TestHandleListRunJobsRunNotFound(t *testing.T) {
	workflowsService := new(workflows.MockWorkflowsService)
	workflowsService.On("GetWorkflowRunByID", mock.Anything, "run_01MISSING").
		Return(mo.None[*models.WorkflowRun](), nil)

	rec := httptest.NewRecorder()
	newDashboardRouter(workflowsService).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/run_01MISSING/jobs", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	workflowsService.AssertNotCalled(t, "ListWorkflowJobsForRun", mock.Anything, mock.Anything)
}
