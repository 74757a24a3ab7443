package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"ghdash/core"
)

// WebhookProcessor is the reconciliation entry point the endpoint dispatches
// into, one method per recognized event kind.
type WebhookProcessor interface {
	HandleWorkflowRunEvent(ctx context.Context, payload map[string]any) error
	HandleWorkflowJobEvent(ctx context.Context, payload map[string]any) error
}

type GitHubWebhooksHandler struct {
	webhookSecret    string
	webhookProcessor WebhookProcessor
}

func NewGitHubWebhooksHandler(webhookSecret string, webhookProcessor WebhookProcessor) *GitHubWebhooksHandler {
	return &GitHubWebhooksHandler{
		webhookSecret:    webhookSecret,
		webhookProcessor: webhookProcessor,
	}
}

func (h *GitHubWebhooksHandler) HandleGitHubWebhook(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 GitHub webhook received from %s", r.RemoteAddr)

	if h.webhookSecret == "" {
		err := core.NewConfigurationError("GITHUB_WEBHOOK_SECRET is not configured, cannot verify deliveries")
		log.Printf("❌ %v", err)
		http.Error(w, "webhook secret not configured", statusForError(err))
		return
	}

	// Read raw body for signature verification before any parsing
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(bodyBytes) == 0 {
		log.Printf("❌ Empty request body")
		http.Error(w, "missing body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Hub-Signature-256")
	if signature == "" {
		log.Printf("❌ Missing X-Hub-Signature-256 header")
		http.Error(w, "missing signature header", http.StatusBadRequest)
		return
	}

	if !VerifyGitHubSignature(bodyBytes, signature, h.webhookSecret) {
		err := core.NewAuthenticationError("GitHub signature verification failed")
		log.Printf("❌ %v", err)
		http.Error(w, "unauthorized", statusForError(err))
		return
	}

	log.Printf("✅ GitHub signature verified successfully")

	var payload map[string]any
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		log.Printf("❌ Failed to parse JSON body: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	log.Printf("📞 GitHub event received: %s", eventType)

	switch eventType {
	case "workflow_run":
		err = h.webhookProcessor.HandleWorkflowRunEvent(r.Context(), payload)
	case "workflow_job":
		err = h.webhookProcessor.HandleWorkflowJobEvent(r.Context(), payload)
	default:
		// Recognized-but-ignored; the sender should not redeliver these.
		log.Printf("📋 Ignoring: %v", core.NewUnsupportedEventError(eventType))
		w.WriteHeader(http.StatusOK)
		return
	}

	if err != nil {
		log.Printf("❌ Failed to process %s event: %v", eventType, err)
		http.Error(w, "failed to process event", statusForError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

// statusForError maps domain error kinds to the response codes the webhook
// sender's redelivery policy keys on.
func statusForError(err error) int {
	kind, ok := core.ErrorKindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case core.ErrorKindPayload, core.ErrorKindValidation:
		return http.StatusBadRequest
	case core.ErrorKindAuthentication:
		return http.StatusUnauthorized
	case core.ErrorKindConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (h *GitHubWebhooksHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering GitHub webhook endpoints")

	router.HandleFunc("/github/events", h.HandleGitHubWebhook).Methods("POST")
	log.Printf("✅ POST /github/events endpoint registered")
}
