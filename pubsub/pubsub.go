// Package pubsub is the in-process change-notification bus. Delivery is
// best-effort and at-most-once per currently registered subscriber: there is
// no durable queue and no replay, so consumers that need to survive a
// reconnect must re-fetch current state from the store instead.
package pubsub

import (
	"log"
	"sync"

	"ghdash/core"
	"ghdash/models"
)

const (
	TopicRunChanges = "run-changes"
	TopicJobChanges = "job-changes"
)

// subscriptionBuffer bounds how far a slow subscriber may lag before
// notifications are dropped for it.
const subscriptionBuffer = 64

// Publisher is the write side of the bus.
type Publisher interface {
	Publish(topic string, notification models.ChangeNotification)
}

type Subscription struct {
	ID    string
	Topic string
	C     <-chan models.ChangeNotification

	ch chan models.ChangeNotification
}

type Broker struct {
	mutex sync.RWMutex
	subs  map[string]map[string]*Subscription
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[string]*Subscription),
	}
}

func (b *Broker) Subscribe(topic string) *Subscription {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	ch := make(chan models.ChangeNotification, subscriptionBuffer)
	sub := &Subscription{
		ID:    core.NewID("sub"),
		Topic: topic,
		C:     ch,
		ch:    ch,
	}

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[string]*Subscription)
	}
	b.subs[topic][sub.ID] = sub

	log.Printf("📊 Subscriber %s added to topic %s. Total subscribers: %d", sub.ID, topic, len(b.subs[topic]))
	return sub
}

func (b *Broker) Unsubscribe(sub *Subscription) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	topicSubs, ok := b.subs[sub.Topic]
	if !ok {
		return
	}
	if _, ok := topicSubs[sub.ID]; !ok {
		return
	}

	delete(topicSubs, sub.ID)
	close(sub.ch)
	log.Printf("🔌 Subscriber %s removed from topic %s. Remaining subscribers: %d", sub.ID, sub.Topic, len(topicSubs))
}

// Publish delivers the notification to every subscriber currently registered
// on the topic. A full subscriber channel drops the notification for that
// subscriber rather than blocking the publisher.
func (b *Broker) Publish(topic string, notification models.ChangeNotification) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	for _, sub := range b.subs[topic] {
		select {
		case sub.ch <- notification:
		default:
			log.Printf("⚠️ Dropping %s notification for slow subscriber %s", topic, sub.ID)
		}
	}
}
