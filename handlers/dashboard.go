package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"ghdash/services"
)

const (
	defaultRunsLimit = 50
	maxRunsLimit     = 200
)

// DashboardAPIHandler serves the read API the dashboard uses to load current
// state. Live updates reach the browser over the socket stream; on (re)connect
// a viewer re-fetches from here instead of relying on replay.
type DashboardAPIHandler struct {
	workflowsService services.WorkflowsService
}

func NewDashboardAPIHandler(workflowsService services.WorkflowsService) *DashboardAPIHandler {
	return &DashboardAPIHandler{workflowsService: workflowsService}
}

func (h *DashboardAPIHandler) HandleListRecentRuns(w http.ResponseWriter, r *http.Request) {
	log.Printf("📊 List recent runs request received from %s", r.RemoteAddr)

	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Printf("❌ Invalid limit parameter: %s", raw)
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
		if limit > maxRunsLimit {
			limit = maxRunsLimit
		}
	}

	runs, err := h.workflowsService.ListRecentWorkflowRuns(r.Context(), limit)
	if err != nil {
		log.Printf("❌ Failed to list recent runs: %v", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, runs)
}

func (h *DashboardAPIHandler) HandleListRunJobs(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["runID"]
	log.Printf("📊 List jobs request received for run %s from %s", runID, r.RemoteAddr)

	maybeRun, err := h.workflowsService.GetWorkflowRunByID(r.Context(), runID)
	if err != nil {
		log.Printf("❌ Failed to look up run %s: %v", runID, err)
		http.Error(w, "failed to look up run", http.StatusInternalServerError)
		return
	}
	if !maybeRun.IsPresent() {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	jobs, err := h.workflowsService.ListWorkflowJobsForRun(r.Context(), runID)
	if err != nil {
		log.Printf("❌ Failed to list jobs for run %s: %v", runID, err)
		http.Error(w, "failed to list jobs", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, jobs)
}

func (h *DashboardAPIHandler) writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to write JSON response: %v", err)
	}
}

func (h *DashboardAPIHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering dashboard API endpoints")

	router.HandleFunc("/api/runs", h.HandleListRecentRuns).Methods("GET")
	router.HandleFunc("/api/runs/{runID}/jobs", h.HandleListRunJobs).Methods("GET")
	log.Printf("✅ Dashboard API endpoints registered")
}
