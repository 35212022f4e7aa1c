package codebattle

import (
	"context"
	"testing"

	"github.com/nfrund/codebattle/internal/battle"
	"github.com/nfrund/codebattle/internal/modules/codebattle/events"
	"github.com/nfrund/codebattle/internal/modules/codebattle/topics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPresentedEngine(t *testing.T, autoAdvance bool) (*battle.Engine, *Presenter, *recordingPublisher, *battle.ManualScheduler) {
	t.Helper()
	pub := &recordingPublisher{}
	sched := battle.NewManualScheduler()
	p := NewPresenter(context.Background(), "p1", pub, autoAdvance, quietLogger())
	e := battle.New(sched,
		battle.WithObserver(p),
		battle.WithDice(fixedDice{}),
		battle.WithLogger(quietLogger()),
	)
	p.snapshot = e.Snapshot
	return e, p, pub, sched
}

func TestPresenter_IntroWithoutSnapshot(t *testing.T) {
	_, p, pub, _ := newPresentedEngine(t, true)

	// The first battle starts while the engine is being built, so there is no
	// screen event, only the intro.
	assert.NotContains(t, pub.topics(), topics.TopicScreen.Name())
	assert.Contains(t, pub.topics(), topics.TopicMessage.Name())
	assert.Equal(t, events.ScreenBattle, p.Screen())

	for _, m := range pub.messages {
		assert.Equal(t, "p1", m.UserID)
	}

	turn, ok := pub.last(topics.TopicTurn.Name())
	require.True(t, ok)
	assert.Equal(t, events.Turn{Turn: battle.TurnPlayer, Active: true}, decode[events.Turn](t, turn))
}

func TestPresenter_PlayerAttack(t *testing.T) {
	e, _, pub, _ := newPresentedEngine(t, true)
	pub.reset()

	require.NoError(t, e.SubmitPlayerAttack(3))

	assert.Equal(t, []string{
		topics.TopicMessage.Name(),
		topics.TopicHealth.Name(),
		topics.TopicAnimation.Name(),
	}, pub.topics())

	msg, _ := pub.last(topics.TopicMessage.Name())
	assert.Equal(t, events.Message{
		Text:     "Cursor used Agentic Assault! Dealt 42 CRITICAL damage!",
		Category: battle.CategoryPlayer,
	}, decode[events.Message](t, msg))

	health, _ := pub.last(topics.TopicHealth.Name())
	assert.Equal(t, events.Health{Side: battle.SideOpponent, Current: 58, Max: 100}, decode[events.Health](t, health))

	anim, _ := pub.last(topics.TopicAnimation.Name())
	assert.Equal(t, events.Animation{
		Actor:       events.ActorPlayer,
		AttackIndex: 3,
		Effect:      "agentic-assault",
		Critical:    true,
		Heavy:       true,
	}, decode[events.Animation](t, anim))
}

func TestPresenter_LightAttackDoesNotShake(t *testing.T) {
	e, _, pub, _ := newPresentedEngine(t, true)
	require.NoError(t, e.SubmitPlayerAttack(0))

	anim, _ := pub.last(topics.TopicAnimation.Name())
	got := decode[events.Animation](t, anim)
	assert.Equal(t, "tab-tab-tab", got.Effect)
	assert.False(t, got.Heavy)
}

func TestPresenter_OpponentTurn(t *testing.T) {
	e, _, pub, sched := newPresentedEngine(t, true)
	require.NoError(t, e.SubmitPlayerAttack(0))
	pub.reset()

	// Animation delay, then the opponent's attack.
	require.True(t, sched.RunNext())
	require.True(t, sched.RunNext())

	anim, ok := pub.last(topics.TopicAnimation.Name())
	require.True(t, ok)
	assert.Equal(t, events.ActorOpponent, decode[events.Animation](t, anim).Actor)

	// Player health is only redrawn after the opponent animation.
	_, ok = pub.last(topics.TopicHealth.Name())
	assert.False(t, ok)
	require.True(t, sched.RunNext())
	health, ok := pub.last(topics.TopicHealth.Name())
	require.True(t, ok)
	assert.Equal(t, battle.SidePlayer, decode[events.Health](t, health).Side)
}

// winLevel fights the current opponent with Agentic Assault until the win
// and the level advance have run.
func winLevel(t *testing.T, e *battle.Engine, sched *battle.ManualScheduler) {
	t.Helper()
	for e.Active() {
		require.NoError(t, e.SubmitPlayerAttack(3))
		for e.Active() && e.State() != battle.PlayerTurn {
			require.True(t, sched.RunNext())
		}
	}
	sched.RunAll(100)
}

func TestPresenter_AutoAdvanceRequestsNextLevel(t *testing.T) {
	e, p, pub, sched := newPresentedEngine(t, true)
	advanced := 0
	p.advance = func() { advanced++ }

	winLevel(t, e, sched)

	assert.Equal(t, 1, advanced)
	assert.Equal(t, events.ScreenBattle, p.Screen())

	turn, _ := pub.last(topics.TopicTurn.Name())
	assert.Equal(t, events.Turn{Active: false}, decode[events.Turn](t, turn))
}

func TestPresenter_LevelCompleteScreen(t *testing.T) {
	e, p, pub, sched := newPresentedEngine(t, false)

	winLevel(t, e, sched)

	assert.Equal(t, events.ScreenLevelComplete, p.Screen())
	msg, ok := pub.last(topics.TopicScreen.Name())
	require.True(t, ok)
	screen := decode[events.Screen](t, msg)
	assert.Equal(t, events.ScreenLevelComplete, screen.Screen)
	assert.False(t, screen.AutoAdvance)
	assert.Equal(t, 2, screen.Snapshot.Level)
	require.NotNil(t, screen.Snapshot.Opponent)
	assert.Equal(t, "Windsurf", screen.Snapshot.Opponent.Name)

	// Continuing starts the next battle and switches back.
	require.NoError(t, e.RequestNextLevel())
	assert.Equal(t, events.ScreenBattle, p.Screen())
	msg, _ = pub.last(topics.TopicScreen.Name())
	assert.Equal(t, events.ScreenBattle, decode[events.Screen](t, msg).Screen)
}

func TestPresenter_VictoryScreen(t *testing.T) {
	e, p, _, sched := newPresentedEngine(t, false)

	for !e.Model().IsComplete() {
		winLevel(t, e, sched)
		if !e.Model().IsComplete() {
			require.NoError(t, e.RequestNextLevel())
		}
	}
	assert.Equal(t, events.ScreenVictory, p.Screen())

	v, ok := p.View()
	require.True(t, ok)
	assert.True(t, v.Snapshot.Complete)
}
