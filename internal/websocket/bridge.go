package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/codebattle/internal/pubsub"
)

// IdentityFunc resolves the user a connection belongs to.
type IdentityFunc func(c echo.Context) (string, bool)

// BridgeDependencies holds everything a Bridge needs.
type BridgeDependencies struct {
	Publisher pubsub.Publisher
	// Identify resolves the connecting user, normally from the player session.
	Identify IdentityFunc
	// CommandTopic receives whitelisted client frames. Empty disables inbound commands.
	CommandTopic string
	Whitelist    *ClientWhitelist
	// OriginPatterns are extra hosts allowed to open connections.
	OriginPatterns []string
}

// directMessage is a message to be sent to a single user.
type directMessage struct {
	userID      string
	payload     []byte
	targetTypes map[ConnectionType]bool
}

// broadcastMessage is a message to be sent to every matching client.
type broadcastMessage struct {
	payload     []byte
	targetTypes map[ConnectionType]bool
}

// Bridge manages all WebSocket connections and routes messages between
// connected clients and the Pub/Sub message bus.
type Bridge struct {
	publisher      pubsub.Publisher
	identify       IdentityFunc
	commandTopic   string
	whitelist      *ClientWhitelist
	originPatterns []string

	// clients maps a user ID to the user's connections. A player can have
	// several tabs open and both an html and a data connection.
	clients map[string][]*Client
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage
	direct     chan *directMessage

	done     chan struct{}
	stopOnce sync.Once
}

// NewBridge initializes a new Bridge. Run must be started before clients connect.
func NewBridge(deps BridgeDependencies) *Bridge {
	whitelist := deps.Whitelist
	if whitelist == nil {
		whitelist = NewClientWhitelist()
	}
	return &Bridge{
		publisher:      deps.Publisher,
		identify:       deps.Identify,
		commandTopic:   deps.CommandTopic,
		whitelist:      whitelist,
		originPatterns: deps.OriginPatterns,
		clients:        make(map[string][]*Client),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan *broadcastMessage),
		direct:         make(chan *directMessage),
		done:           make(chan struct{}),
	}
}

// AllowAction adds an action clients may send.
func (b *Bridge) AllowAction(action string) error {
	return b.whitelist.AddAction(action)
}

// Run manages client lifecycle and message routing until ctx is canceled.
func (b *Bridge) Run(ctx context.Context) {
	slog.Info("WebSocket bridge runner started")
	defer b.stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("WebSocket bridge runner stopping")
			return

		case client := <-b.register:
			b.mu.Lock()
			b.clients[client.ID] = append(b.clients[client.ID], client)
			b.mu.Unlock()
			slog.Debug("Client registered", "userID", client.ID, "type", client.connType)

		case client := <-b.unregister:
			b.removeClient(client)

		case message := <-b.broadcast:
			b.mu.RLock()
			for _, clients := range b.clients {
				for _, client := range clients {
					deliver(client, message.payload, message.targetTypes)
				}
			}
			b.mu.RUnlock()

		case message := <-b.direct:
			b.mu.RLock()
			for _, client := range b.clients[message.userID] {
				deliver(client, message.payload, message.targetTypes)
			}
			b.mu.RUnlock()
		}
	}
}

func deliver(client *Client, payload []byte, targets map[ConnectionType]bool) {
	if len(targets) > 0 && !targets[client.connType] {
		return
	}
	select {
	case client.send <- payload:
	default:
		slog.Warn("Client send channel full, dropping message", "userID", client.ID)
	}
}

func (b *Bridge) removeClient(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	clients, ok := b.clients[client.ID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			b.clients[client.ID] = append(clients[:i], clients[i+1:]...)
			close(client.send)
			slog.Debug("Client unregistered", "userID", client.ID, "type", client.connType)
			break
		}
	}
	if len(b.clients[client.ID]) == 0 {
		delete(b.clients, client.ID)
	}
}

// stop closes every client. Pending sends and registrations are abandoned.
func (b *Bridge) stop() {
	b.stopOnce.Do(func() {
		close(b.done)
		b.mu.Lock()
		defer b.mu.Unlock()
		for id, clients := range b.clients {
			for _, c := range clients {
				close(c.send)
			}
			delete(b.clients, id)
		}
	})
}

// Handler returns an echo.HandlerFunc that upgrades the request and serves
// the connection until it closes.
func (b *Bridge) Handler(connType ConnectionType) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := b.identify(c)
		if !ok {
			return c.String(http.StatusUnauthorized, "No player session")
		}

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			OriginPatterns: b.originPatterns,
		})
		if err != nil {
			slog.Error("Failed to upgrade connection to WebSocket", "error", err)
			return nil
		}

		client := &Client{
			ID:       userID,
			connID:   uuid.NewString(),
			conn:     conn,
			send:     make(chan []byte, sendBuffer),
			connType: connType,
			bridge:   b,
		}
		select {
		case b.register <- client:
		case <-b.done:
			conn.Close(websocket.StatusGoingAway, "Server shutting down")
			return nil
		}

		go client.writePump()
		b.publishLifecycle(c.Request().Context(), TopicClientConnected.Name(), client)

		// The request context lives as long as this handler, so the read loop
		// runs here rather than on its own goroutine.
		client.readPump(c.Request().Context())
		b.publishLifecycle(context.Background(), TopicClientDisconnected.Name(), client)
		return nil
	}
}

func (b *Bridge) unregisterClient(client *Client) {
	select {
	case b.unregister <- client:
	case <-b.done:
	}
}

func (b *Bridge) publishLifecycle(ctx context.Context, topic string, client *Client) {
	if b.publisher == nil {
		return
	}
	payload, err := json.Marshal(ClientEvent{UserID: client.ID, ClientID: client.connID, ConnectionType: client.connType})
	if err != nil {
		return
	}
	if err := b.publisher.Publish(ctx, pubsub.Message{Topic: topic, UserID: client.ID, Payload: payload}); err != nil {
		slog.Error("Failed to publish websocket lifecycle event", "topic", topic, "error", err)
	}
}

// Broadcast sends a message to all clients of the given connection types.
// No types means every client.
func (b *Bridge) Broadcast(payload []byte, connTypes ...ConnectionType) {
	select {
	case b.broadcast <- &broadcastMessage{payload: payload, targetTypes: targetSet(connTypes)}:
	case <-b.done:
	}
}

// SendDirect sends a message to every connection of one user.
func (b *Bridge) SendDirect(userID string, payload []byte, connTypes ...ConnectionType) {
	select {
	case b.direct <- &directMessage{userID: userID, payload: payload, targetTypes: targetSet(connTypes)}:
	case <-b.done:
	}
}

// ClientCount returns the number of open connections for userID.
func (b *Bridge) ClientCount(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[userID])
}

func targetSet(types []ConnectionType) map[ConnectionType]bool {
	targets := make(map[ConnectionType]bool, len(types))
	for _, t := range types {
		targets[t] = true
	}
	return targets
}
