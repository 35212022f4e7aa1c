package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/codebattle/internal/pubsub"
	"github.com/nfrund/codebattle/internal/websocket"
)

type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// OfflineDebounceDelay is how long a player stays online after their last
// connection closes. Page reloads reconnect well within it.
const OfflineDebounceDelay = 5 * time.Second

type Presence struct {
	UserID         string                   `json:"user_id"`
	Status         Status                   `json:"status"`
	ClientID       string                   `json:"client_id,omitempty"`
	ConnectionType websocket.ConnectionType `json:"connection_type"`
	Timestamp      time.Time                `json:"timestamp"`
}

// Service tracks which players have open websocket connections.
type Service struct {
	mu        sync.RWMutex
	presences map[string]map[string]Presence // userID -> clientID -> Presence
	logger    *slog.Logger
	now       func() time.Time

	offlineDebounce      map[string]*time.Timer // userID -> pending offline
	offlineDebounceDelay time.Duration
}

// Option is a function that configures a Service.
type Option func(*Service)

// WithOfflineDebounce sets the delay before a disconnected player counts as
// offline. Zero marks them offline immediately.
func WithOfflineDebounce(d time.Duration) Option {
	return func(s *Service) {
		s.offlineDebounceDelay = d
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates an empty presence service.
func NewService(opts ...Option) *Service {
	svc := &Service{
		presences:            make(map[string]map[string]Presence),
		logger:               slog.Default(),
		now:                  func() time.Time { return time.Now().UTC() },
		offlineDebounce:      make(map[string]*time.Timer),
		offlineDebounceDelay: OfflineDebounceDelay,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	svc.logger = svc.logger.With("service", "presence")
	return svc
}

// Start subscribes to the websocket lifecycle topics.
func (s *Service) Start(ctx context.Context, subscriber pubsub.Subscriber) error {
	if err := subscriber.Subscribe(ctx, websocket.TopicClientConnected.Name(), s.handleClientConnected); err != nil {
		return fmt.Errorf("presence: subscribe %s: %w", websocket.TopicClientConnected.Name(), err)
	}
	if err := subscriber.Subscribe(ctx, websocket.TopicClientDisconnected.Name(), s.handleClientDisconnected); err != nil {
		return fmt.Errorf("presence: subscribe %s: %w", websocket.TopicClientDisconnected.Name(), err)
	}
	s.logger.Info("Presence service started")
	return nil
}

func (s *Service) handleClientConnected(_ context.Context, msg pubsub.Message) error {
	var event websocket.ClientEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("decode client event: %w", err)
	}
	s.addPresence(event)
	return nil
}

func (s *Service) handleClientDisconnected(_ context.Context, msg pubsub.Message) error {
	var event websocket.ClientEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("decode client event: %w", err)
	}
	s.removePresence(event.UserID, event.ClientID)
	return nil
}

func (s *Service) addPresence(event websocket.ClientEvent) {
	if event.UserID == "" || event.ClientID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.offlineDebounce[event.UserID]; ok {
		timer.Stop()
		delete(s.offlineDebounce, event.UserID)
		s.logger.Debug("Cancelled offline debounce due to reconnection", "user_id", event.UserID)
	}

	clients, ok := s.presences[event.UserID]
	if !ok {
		clients = make(map[string]Presence)
		s.presences[event.UserID] = clients
		s.logger.Info("Player came online", "user_id", event.UserID)
	}
	clients[event.ClientID] = Presence{
		UserID:         event.UserID,
		Status:         StatusOnline,
		ClientID:       event.ClientID,
		ConnectionType: event.ConnectionType,
		Timestamp:      s.now(),
	}
}

func (s *Service) removePresence(userID, clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients, ok := s.presences[userID]
	if !ok {
		return
	}
	delete(clients, clientID)
	if len(clients) > 0 {
		return
	}

	if s.offlineDebounceDelay <= 0 {
		delete(s.presences, userID)
		s.logger.Info("Player went offline", "user_id", userID)
		return
	}
	if timer, ok := s.offlineDebounce[userID]; ok {
		timer.Stop()
	}
	s.offlineDebounce[userID] = time.AfterFunc(s.offlineDebounceDelay, func() {
		s.expire(userID)
	})
}

// expire runs when a debounce period ends.
func (s *Service) expire(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.offlineDebounce, userID)
	if len(s.presences[userID]) > 0 {
		return
	}
	delete(s.presences, userID)
	s.logger.Info("Player went offline after debounce period", "user_id", userID)
}

// IsOnline reports whether the player has an open connection or disconnected
// less than the debounce delay ago.
func (s *Service) IsOnline(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.presences[userID]
	return ok
}

// Get returns the player's presence.
func (s *Service) Get(userID string) Presence {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients, ok := s.presences[userID]
	if !ok {
		return Presence{UserID: userID, Status: StatusOffline}
	}
	latest := Presence{UserID: userID, Status: StatusOnline}
	for _, p := range clients {
		if p.Timestamp.After(latest.Timestamp) {
			latest = p
		}
	}
	return latest
}

// Connections is the number of open connections the player has.
func (s *Service) Connections(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.presences[userID])
}

// OnlineCount is the number of players currently online.
func (s *Service) OnlineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.presences)
}

// Close stops pending offline timers.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, timer := range s.offlineDebounce {
		timer.Stop()
		delete(s.offlineDebounce, userID)
	}
}
