package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/nfrund/codebattle/internal/pubsub"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Outbound frames buffered per client before new ones are dropped.
	sendBuffer = 256
	// Largest inbound frame accepted from a client.
	maxMessageSize = 4096
)

// Client represents a single connected WebSocket client.
type Client struct {
	// ID is the player the connection belongs to.
	ID string
	// connID tells apart the connections of one player.
	connID   string
	conn     *websocket.Conn
	send     chan []byte
	connType ConnectionType
	bridge   *Bridge
}

// readPump forwards whitelisted client frames to the command topic.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.bridge.unregisterClient(c)
		c.conn.Close(websocket.StatusNormalClosure, "Client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, message, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			switch {
			case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
				slog.Debug("WebSocket closed normally by client", "userID", c.ID)
			case errors.Is(err, io.EOF) || errors.Is(err, context.Canceled):
			default:
				slog.Warn("WebSocket read error", "userID", c.ID, "error", err)
			}
			return
		}
		c.handleIncoming(ctx, message)
	}
}

func (c *Client) handleIncoming(ctx context.Context, message []byte) {
	var envelope clientMessage
	if err := json.Unmarshal(message, &envelope); err != nil {
		slog.Debug("Ignoring malformed client message", "userID", c.ID, "error", err)
		return
	}
	if !c.bridge.whitelist.IsAllowed(envelope.Action) {
		slog.Debug("Ignoring client action not in whitelist", "userID", c.ID, "action", envelope.Action)
		return
	}
	if c.bridge.commandTopic == "" {
		return
	}

	err := c.bridge.publisher.Publish(ctx, pubsub.Message{
		Topic:   c.bridge.commandTopic,
		UserID:  c.ID,
		Payload: message,
		Metadata: map[string]string{
			"action":          envelope.Action,
			"connection_type": c.connType.String(),
			"timestamp":       time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		slog.Error("Failed to publish client command", "userID", c.ID, "action", envelope.Action, "error", err)
	}
}

// writePump pumps messages from the client's send channel to the WebSocket connection.
func (c *Client) writePump() {
	defer c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")

	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			slog.Warn("WebSocket write error", "userID", c.ID, "error", err)
			return
		}
	}
}
