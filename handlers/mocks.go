package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockWebhookProcessor is a mock implementation of the WebhookProcessor interface
type MockWebhookProcessor struct {
	mock.Mock
}

func (m *MockWebhookProcessor) HandleWorkflowRunEvent(ctx context.Context, payload map[string]any) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockWebhookProcessor) HandleWorkflowJobEvent(ctx context.Context, payload map[string]any) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
