package codebattle

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/nfrund/codebattle/internal/battle"
	"github.com/nfrund/codebattle/internal/pubsub"
	"github.com/nfrund/codebattle/internal/websocket"
	"github.com/stretchr/testify/require"
)

// fixedDice always draws the same value. With 0 every attack hits critically
// and every opponent rule fires.
type fixedDice struct{ f float64 }

func (d fixedDice) Float64() float64 { return d.f }
func (d fixedDice) IntN(int) int     { return 0 }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingPublisher keeps every published message in order.
type recordingPublisher struct {
	mu       sync.Mutex
	messages []pubsub.Message
}

func (p *recordingPublisher) Publish(ctx context.Context, msg pubsub.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		out = append(out, m.Topic)
	}
	return out
}

func (p *recordingPublisher) last(topic string) (pubsub.Message, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.messages) - 1; i >= 0; i-- {
		if p.messages[i].Topic == topic {
			return p.messages[i], true
		}
	}
	return pubsub.Message{}, false
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = nil
}

func decode[T any](t *testing.T, msg pubsub.Message) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Payload, &v))
	return v
}

type sent struct {
	userID   string
	payload  string
	connType websocket.ConnectionType
}

// recordingSender stands in for the websocket bridge.
type recordingSender struct {
	mu      sync.Mutex
	sent    []sent
	allowed []string
}

func (s *recordingSender) SendDirect(userID string, payload []byte, connTypes ...websocket.ConnectionType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ct := range connTypes {
		s.sent = append(s.sent, sent{userID: userID, payload: string(payload), connType: ct})
	}
}

func (s *recordingSender) AllowAction(action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowed = append(s.allowed, action)
	return nil
}

// find returns the payloads sent to userID on connType that satisfy match.
func (s *recordingSender) find(userID string, connType websocket.ConnectionType, match func(string) bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, m := range s.sent {
		if m.userID == userID && m.connType == connType && match(m.payload) {
			out = append(out, m.payload)
		}
	}
	return out
}

// testArenaConfig returns a config with no delays and fixed dice.
func testArenaConfig(pub pubsub.Publisher) ArenaConfig {
	return ArenaConfig{
		Publisher:   pub,
		AutoAdvance: true,
		Delays:      battle.Delays{},
		Logger:      quietLogger(),
		NewDice:     func() battle.Dice { return fixedDice{} },
	}
}
