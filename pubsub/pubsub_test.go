package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghdash/models"
)

func runNotification(label string) models.ChangeNotification {
	return models.ChangeNotification{
		EntityKind: models.EntityKindWorkflowRun,
		EventLabel: label,
		Entity:     &models.WorkflowRun{Name: "CI"},
	}
}

func TestPublishDeliversToSubscriber(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe(TopicRunChanges)
	defer broker.Unsubscribe(sub)

	broker.Publish(TopicRunChanges, runNotification("completed"))

	select {
	case notification := <-sub.C:
		assert.Equal(t, models.EntityKindWorkflowRun, notification.EntityKind)
		assert.Equal(t, "completed", notification.EventLabel)
	case <-time.After(time.Second):
		t.Fatal("expected a notification on the subscription channel")
	}
}

func TestTopicsAreIsolated(t *testing.T) {
	broker := NewBroker()
	runSub := broker.Subscribe(TopicRunChanges)
	jobSub := broker.Subscribe(TopicJobChanges)
	defer broker.Unsubscribe(runSub)
	defer broker.Unsubscribe(jobSub)

	broker.Publish(TopicRunChanges, runNotification("requested"))

	require.Len(t, runSub.C, 1)
	assert.Len(t, jobSub.C, 0)
}

func TestLateSubscriberSeesNoReplay(t *testing.T) {
	broker := NewBroker()

	broker.Publish(TopicRunChanges, runNotification("requested"))

	sub := broker.Subscribe(TopicRunChanges)
	defer broker.Unsubscribe(sub)
	assert.Len(t, sub.C, 0)
}

func TestOrderingWithinTopic(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe(TopicRunChanges)
	defer broker.Unsubscribe(sub)

	labels := []string{"requested", "in_progress", "completed"}
	for _, label := range labels {
		broker.Publish(TopicRunChanges, runNotification(label))
	}

	for _, label := range labels {
		notification := <-sub.C
		assert.Equal(t, label, notification.EventLabel)
	}
}

func TestUnsubscribeStopsDeliveryAndClosesChannel(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe(TopicJobChanges)

	broker.Unsubscribe(sub)
	broker.Publish(TopicJobChanges, runNotification("queued"))

	_, open := <-sub.C
	assert.False(t, open)

	// Unsubscribing twice is a no-op
	broker.Unsubscribe(sub)
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe(TopicRunChanges)
	defer broker.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Overflow the subscription buffer; excess notifications are dropped.
		for i := 0; i < subscriptionBuffer*2; i++ {
			broker.Publish(TopicRunChanges, runNotification("in_progress"))
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	assert.Len(t, sub.C, subscriptionBuffer)
}
