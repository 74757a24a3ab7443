package webhook

import (
	"github.com/stretchr/testify/mock"

	"ghdash/models"
)

// MockPublisher is a mock implementation of the pubsub.Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(topic string, notification models.ChangeNotification) {
	m.Called(topic, notification)
}
