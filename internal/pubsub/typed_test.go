package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/codebattle/internal/topicmgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scoreChanged struct {
	Side    string `json:"side"`
	Current int    `json:"current,omitempty"`
	Ignored string `json:"-"`
}

var testScoreChanged = NewEvent[scoreChanged]("pubsubtest.score.changed", "Score changed in a pubsub test")

func TestNewEvent_RegistersTopic(t *testing.T) {
	topic, ok := topicmgr.Default().Get("pubsubtest.score.changed")
	require.True(t, ok)

	assert.Equal(t, "pubsubtest", topic.Module())
	assert.Equal(t, topicmgr.ScopeModule, topic.Scope())
	meta := topic.Metadata()
	assert.Equal(t, []string{"side", "current"}, meta["payload_fields"])
	assert.Equal(t, "scoreChanged", meta["type_name"])
	assert.Equal(t, "pubsubtest.score.changed", testScoreChanged.Name())
}

func TestWatermillBridge_TypedRoundTrip(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu       sync.Mutex
		received []scoreChanged
		users    []string
	)
	err := Subscribe(ctx, bus, testScoreChanged, func(ctx context.Context, userID string, p scoreChanged) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, p)
		users = append(users, userID)
		return nil
	})
	require.NoError(t, err)

	for i := 1; i <= 20; i++ {
		require.NoError(t, PublishFor(ctx, bus, testScoreChanged, "player-1", scoreChanged{Side: "opponent", Current: i}))
	}

	// Publishing blocks until the subscriber acks, so everything has arrived.
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 20)
	for i, p := range received {
		assert.Equal(t, i+1, p.Current, "messages must keep publish order")
		assert.Equal(t, "player-1", users[i])
	}
}

func TestWatermillBridge_HandlerErrorDoesNotBlock(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 2)
	require.NoError(t, bus.Subscribe(ctx, "pubsubtest.raw", func(ctx context.Context, msg Message) error {
		calls <- struct{}{}
		return assert.AnError
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Publish(ctx, Message{Topic: "pubsubtest.raw", Payload: []byte("{}")})
		_ = bus.Publish(ctx, Message{Topic: "pubsubtest.raw", Payload: []byte("{}")})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a failing handler")
	}
	assert.Len(t, calls, 2)
}

func TestWatermillBridge_PublishAfterCloseFails(t *testing.T) {
	bus := NewWatermillBridge()
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), Message{Topic: "pubsubtest.raw", Payload: []byte("{}")})
	assert.Error(t, err)
}

func TestMessageMapping(t *testing.T) {
	in := Message{
		Topic:    "codebattle.command",
		UserID:   "abc",
		Payload:  []byte(`{"action":"restart"}`),
		Metadata: map[string]string{"source": "ws"},
	}
	out := mapToPubSubMessage(mapToWatermillMessage(in))

	assert.Equal(t, in.Topic, out.Topic)
	assert.Equal(t, in.UserID, out.UserID)
	assert.Equal(t, in.Payload, []byte(out.Payload))
	assert.Equal(t, "ws", out.Metadata["source"])
}
