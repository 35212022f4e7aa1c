package codebattle

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nfrund/codebattle/internal/modules/codebattle/events"
	"github.com/nfrund/codebattle/internal/modules/codebattle/topics"
	"github.com/nfrund/codebattle/internal/pubsub"
	"github.com/nfrund/codebattle/internal/rendering"
	"github.com/nfrund/codebattle/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSubscriber(t *testing.T) (*Arena, *recordingSender, *pubsub.WatermillBridge) {
	t.Helper()
	bus := pubsub.NewWatermillBridge()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = bus.Close()
	})

	arena := NewArena(testArenaConfig(bus))
	t.Cleanup(arena.Close)

	sender := &recordingSender{}
	sub := NewSubscriber(bus, sender, rendering.NewUniversalRenderer(), arena)
	require.NoError(t, sub.Start(ctx))
	return arena, sender, bus
}

func contains(s string) func(string) bool {
	return func(payload string) bool { return strings.Contains(payload, s) }
}

func TestSubscriber_PushesIntroToBothClientTypes(t *testing.T) {
	arena, sender, _ := newTestSubscriber(t)
	arena.Get("p1")

	// Publishing blocks until handled, so the intro has been pushed already.
	html := sender.find("p1", websocket.ConnectionTypeHTML, contains("Welcome to Code Battle!"))
	require.Len(t, html, 1)
	assert.Contains(t, html[0], `id="battle-messages"`)
	assert.Contains(t, html[0], `hx-swap-oob="beforeend"`)
	assert.Contains(t, html[0], `class="player-text"`)

	data := sender.find("p1", websocket.ConnectionTypeData, contains("Welcome to Code Battle!"))
	require.Len(t, data, 1)
	var envelope struct {
		Type    string         `json:"type"`
		Payload events.Message `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(data[0]), &envelope))
	assert.Equal(t, topics.TopicMessage.Name(), envelope.Type)
	assert.Equal(t, ">> Welcome to Code Battle!", envelope.Payload.Text)

	controls := sender.find("p1", websocket.ConnectionTypeHTML, contains(`id="battle-controls"`))
	require.NotEmpty(t, controls)
	assert.NotContains(t, controls[len(controls)-1], "disabled")

	assert.Empty(t, sender.find("p2", websocket.ConnectionTypeHTML, contains("")))
}

func TestSubscriber_RoutesCommands(t *testing.T) {
	arena, sender, bus := newTestSubscriber(t)
	arena.Get("p1")

	err := pubsub.PublishFor(context.Background(), bus, topics.TopicCommand, "p1", events.Command{Action: events.ActionAttack, Index: 1})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(sender.find("p1", websocket.ConnectionTypeHTML, contains(`data-effect="cmd-knockout"`))) > 0
	}, time.Second, 5*time.Millisecond)

	fx := sender.find("p1", websocket.ConnectionTypeHTML, contains(`data-effect="cmd-knockout"`))[0]
	assert.Contains(t, fx, `data-heavy="true"`)
	assert.Contains(t, fx, `data-critical="true"`)

	// Commands for players without a match are dropped.
	err = pubsub.PublishFor(context.Background(), bus, topics.TopicCommand, "ghost", events.Command{Action: events.ActionRestart})
	require.NoError(t, err)
	assert.Equal(t, 1, arena.Len())
}

func TestSubscriber_ResyncsOnConnect(t *testing.T) {
	arena, sender, bus := newTestSubscriber(t)
	arena.Get("p1")
	assert.Empty(t, sender.find("p1", websocket.ConnectionTypeHTML, contains(`id="arena"`)))

	payload, err := json.Marshal(websocket.ClientEvent{UserID: "p1", ConnectionType: websocket.ConnectionTypeHTML})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), pubsub.Message{
		Topic:   websocket.TopicClientConnected.Name(),
		UserID:  "p1",
		Payload: payload,
	}))

	require.Eventually(t, func() bool {
		return len(sender.find("p1", websocket.ConnectionTypeHTML, contains(`id="arena"`))) > 0
	}, time.Second, 5*time.Millisecond)

	arenaHTML := sender.find("p1", websocket.ConnectionTypeHTML, contains(`id="arena"`))[0]
	assert.Contains(t, arenaHTML, `hx-swap-oob="true"`)
	assert.Contains(t, arenaHTML, "Microsoft")
	assert.Contains(t, arenaHTML, "Welcome to Code Battle!")

	screens := sender.find("p1", websocket.ConnectionTypeData, contains(topics.TopicScreen.Name()))
	require.Len(t, screens, 1)
}
