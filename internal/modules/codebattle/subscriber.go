package codebattle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nfrund/codebattle/internal/battle"
	"github.com/nfrund/codebattle/internal/modules/codebattle/components"
	"github.com/nfrund/codebattle/internal/modules/codebattle/events"
	"github.com/nfrund/codebattle/internal/modules/codebattle/topics"
	"github.com/nfrund/codebattle/internal/pubsub"
	"github.com/nfrund/codebattle/internal/rendering"
	"github.com/nfrund/codebattle/internal/websocket"
	"maragu.dev/gomponents"
)

// Sender delivers rendered payloads to one player's websocket connections.
type Sender interface {
	SendDirect(userID string, payload []byte, connTypes ...websocket.ConnectionType)
}

// Subscriber renders battle events and pushes them to the player's clients:
// htmx fragments to html connections, JSON envelopes to data connections. It
// also routes data-client commands into matches.
type Subscriber struct {
	subscriber pubsub.Subscriber
	sender     Sender
	renderer   rendering.Renderer
	arena      *Arena
}

// NewSubscriber creates the module's bus subscriber.
func NewSubscriber(sub pubsub.Subscriber, sender Sender, renderer rendering.Renderer, arena *Arena) *Subscriber {
	return &Subscriber{
		subscriber: sub,
		sender:     sender,
		renderer:   renderer,
		arena:      arena,
	}
}

// Start subscribes to every topic. Handlers run until ctx is canceled.
func (s *Subscriber) Start(ctx context.Context) error {
	slog.Info("Starting codebattle subscriber")

	subscriptions := []func() error{
		func() error { return pubsub.Subscribe(ctx, s.subscriber, topics.TopicMessage, s.handleMessage) },
		func() error { return pubsub.Subscribe(ctx, s.subscriber, topics.TopicHealth, s.handleHealth) },
		func() error { return pubsub.Subscribe(ctx, s.subscriber, topics.TopicAnimation, s.handleAnimation) },
		func() error { return pubsub.Subscribe(ctx, s.subscriber, topics.TopicTurn, s.handleTurn) },
		func() error { return pubsub.Subscribe(ctx, s.subscriber, topics.TopicScreen, s.handleScreen) },
		func() error { return pubsub.Subscribe(ctx, s.subscriber, topics.TopicCommand, s.handleCommand) },
		func() error {
			return s.subscriber.Subscribe(ctx, websocket.TopicClientConnected.Name(), s.handleClientConnected)
		},
	}
	for _, subscribe := range subscriptions {
		if err := subscribe(); err != nil {
			return fmt.Errorf("codebattle subscriber: %w", err)
		}
	}
	return nil
}

func (s *Subscriber) handleMessage(ctx context.Context, userID string, e events.Message) error {
	return s.push(ctx, userID, topics.TopicMessage.Name(), components.LogLine(battle.Message{Text: e.Text, Category: e.Category}), e)
}

func (s *Subscriber) handleHealth(ctx context.Context, userID string, e events.Health) error {
	return s.push(ctx, userID, topics.TopicHealth.Name(), components.HealthBar(e.Side, e.Current, e.Max, true), e)
}

func (s *Subscriber) handleAnimation(ctx context.Context, userID string, e events.Animation) error {
	return s.push(ctx, userID, topics.TopicAnimation.Name(), components.Effect(e), e)
}

func (s *Subscriber) handleTurn(ctx context.Context, userID string, e events.Turn) error {
	node := components.Controls(battle.PlayerAttacks(), e.Active && e.Turn == battle.TurnPlayer, e.Active, true)
	return s.push(ctx, userID, topics.TopicTurn.Name(), node, e)
}

func (s *Subscriber) handleScreen(ctx context.Context, userID string, e events.Screen) error {
	v := components.ArenaView{Screen: e.Screen, AutoAdvance: e.AutoAdvance, Snapshot: e.Snapshot}
	return s.push(ctx, userID, topics.TopicScreen.Name(), components.Arena(v, true), e)
}

func (s *Subscriber) handleCommand(ctx context.Context, userID string, cmd events.Command) error {
	m, ok := s.arena.Lookup(userID)
	if !ok {
		slog.Debug("Command for player without a match", "player_id", userID, "action", cmd.Action)
		return nil
	}
	if err := m.Dispatch(cmd); err != nil {
		slog.Debug("Command not dispatched", "player_id", userID, "action", cmd.Action, "error", err)
	}
	return nil
}

// handleClientConnected brings a freshly connected client up to date.
func (s *Subscriber) handleClientConnected(ctx context.Context, msg pubsub.Message) error {
	var event websocket.ClientEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("decode client event: %w", err)
	}
	m, ok := s.arena.Lookup(event.UserID)
	if !ok {
		return nil
	}
	return m.Resync()
}

// push sends node to html clients and payload, wrapped in a typed envelope,
// to data clients.
func (s *Subscriber) push(ctx context.Context, userID, msgType string, node gomponents.Node, payload any) error {
	if userID == "" {
		return nil
	}
	if node != nil {
		fragment, err := s.renderer.RenderComponent(ctx, node)
		if err != nil {
			return fmt.Errorf("render %s: %w", msgType, err)
		}
		s.sender.SendDirect(userID, fragment, websocket.ConnectionTypeHTML)
	}

	data, err := websocket.NewDataMessage(msgType, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msgType, err)
	}
	s.sender.SendDirect(userID, data, websocket.ConnectionTypeData)
	return nil
}
