package socketio

import (
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/mux"
	"github.com/zishang520/socket.io/v2/socket"

	"ghdash/pubsub"
	"ghdash/utils"
)

// Socket.IO event names pushed to dashboard viewers.
const (
	RunChangedEvent = "run_changed"
	JobChangedEvent = "job_changed"
)

// DashboardStreamer bridges the in-process notification bus to connected
// dashboard browsers over Socket.IO. Viewers joining mid-stream start from
// whatever the read API gives them; the stream carries only changes from
// that point on.
type DashboardStreamer struct {
	server  *socket.Server
	broker  *pubsub.Broker
	mutex   sync.RWMutex
	sockets map[string]*socket.Socket
	runSub  *pubsub.Subscription
	jobSub  *pubsub.Subscription
}

func NewDashboardStreamer(broker *pubsub.Broker) *DashboardStreamer {
	server := socket.NewServer(nil, nil)
	streamer := &DashboardStreamer{
		server:  server,
		broker:  broker,
		sockets: make(map[string]*socket.Socket),
	}

	err := server.On("connection", func(sockets ...any) {
		sock := sockets[0].(*socket.Socket)
		streamer.handleConnection(sock)
	})
	utils.AssertInvariant(err == nil, fmt.Sprintf("Failed to register connection handler: %v", err))

	return streamer
}

func (s *DashboardStreamer) RegisterWithRouter(router *mux.Router) {
	log.Printf("🚀 Registering Socket.IO server on /socket.io/ endpoint")
	router.PathPrefix("/socket.io/").Handler(s.server.ServeHandler(nil))
	log.Printf("✅ Socket.IO server registered on /socket.io/")
}

// Start subscribes to both change topics and begins forwarding. Call once,
// after the router is wired.
func (s *DashboardStreamer) Start() {
	s.runSub = s.broker.Subscribe(pubsub.TopicRunChanges)
	s.jobSub = s.broker.Subscribe(pubsub.TopicJobChanges)

	go s.forward(s.runSub, RunChangedEvent)
	go s.forward(s.jobSub, JobChangedEvent)
	log.Printf("✅ Dashboard streamer forwarding %s and %s", pubsub.TopicRunChanges, pubsub.TopicJobChanges)
}

// Stop unsubscribes from the bus; the forwarding goroutines drain and exit
// once their subscription channels close.
func (s *DashboardStreamer) Stop() {
	if s.runSub != nil {
		s.broker.Unsubscribe(s.runSub)
	}
	if s.jobSub != nil {
		s.broker.Unsubscribe(s.jobSub)
	}
}

func (s *DashboardStreamer) forward(sub *pubsub.Subscription, event string) {
	for notification := range sub.C {
		s.broadcast(event, notification)
	}
}

func (s *DashboardStreamer) broadcast(event string, payload any) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for socketID, sock := range s.sockets {
		if err := sock.Emit(event, payload); err != nil {
			log.Printf("❌ Failed to emit %s to socket %s: %v", event, socketID, err)
		}
	}
}

func (s *DashboardStreamer) handleConnection(sock *socket.Socket) {
	socketID := string(sock.Id())
	log.Printf("🔗 New dashboard viewer connected, socket ID: %s", socketID)

	s.addSocket(socketID, sock)

	err := sock.On("disconnect", func(data ...any) {
		log.Printf("🔌 Dashboard viewer disconnected, socket ID: %s", socketID)
		s.removeSocket(socketID)
	})
	utils.AssertInvariant(err == nil, fmt.Sprintf("Failed to set up disconnect handler for socket %s: %v", socketID, err))
}

func (s *DashboardStreamer) addSocket(socketID string, sock *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sockets[socketID] = sock
	log.Printf("📊 Viewer %s added to active connections. Total viewers: %d", socketID, len(s.sockets))
}

func (s *DashboardStreamer) removeSocket(socketID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.sockets, socketID)
	log.Printf("📊 Viewer %s removed. Remaining viewers: %d", socketID, len(s.sockets))
}

// ViewerCount reports how many dashboard sockets are currently connected.
func (s *DashboardStreamer) ViewerCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.sockets)
}
