package battle

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Start(t *testing.T) {
	e, _, sched, rec := newTestEngine(t)

	assert.Equal(t, PlayerTurn, e.State())
	assert.True(t, e.Active())
	assert.Equal(t, 0, sched.Pending())
	assert.Equal(t, []int{1}, rec.started)

	texts := make([]string, 0, len(rec.messages))
	for _, m := range rec.messages {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{
		">> Welcome to Code Battle!",
		">> Cursor enters the Microsoft office!",
		">> Copilot appears! Helpful but sometimes buggy",
		">> Special abilities: Auto-complete Shield, Variable Mangle",
		">> Choose your attack to begin!",
	}, texts)
	assert.Equal(t, CategoryOpponent, rec.messages[2].Category)
	assert.Equal(t, rec.messages, e.Messages())
}

func TestEngine_CriticalHit(t *testing.T) {
	e, dice, sched, rec := newTestEngine(t)
	rec.reset()

	// hit roll 10 (< 95), crit roll 0.10 (< 0.15), damage multiplier 1.0
	dice.push(0.10, 0.10, 0.5)
	require.NoError(t, e.SubmitPlayerAttack(0))

	opp, err := e.Model().CurrentOpponent()
	require.NoError(t, err)
	assert.Equal(t, 78, opp.HP)
	assert.Equal(t, Message{Text: "Cursor used Tab Tab Tab! Dealt 22 CRITICAL damage!", Category: CategoryPlayer}, rec.lastMessage())

	// The opponent health bar updates with the roll, before any continuation.
	require.NotEmpty(t, rec.health)
	assert.Equal(t, healthUpdate{SideOpponent, 78, 100}, rec.health[0])
	assert.Equal(t, ResolvingPlayerAttack, e.State())
	assert.Equal(t, 1, sched.Pending())
}

func TestEngine_Miss(t *testing.T) {
	e, dice, sched, rec := newTestEngine(t)
	rec.reset()

	// Only the hit roll is scripted: any crit or damage draw fails the test.
	dice.push(0.96)
	require.NoError(t, e.SubmitPlayerAttack(0))

	opp, _ := e.Model().CurrentOpponent()
	assert.Equal(t, 100, opp.HP)
	assert.Equal(t, Message{Text: "Tab Tab Tab missed!", Category: CategorySystem}, rec.lastMessage())
	assert.Equal(t, OpponentTurn, e.State())
	assert.Empty(t, rec.health)
	assert.Empty(t, rec.attackAni)
	assert.Equal(t, 1, sched.Pending())
}

func TestEngine_DrawAtOrAboveAccuracyMisses(t *testing.T) {
	cases := []struct {
		index int
		draw  float64
	}{
		{0, 0.96},
		{0, 0.999},
		{1, 0.85},
		{2, 0.90},
		{3, 0.71},
		{3, 0.99},
	}
	for _, tc := range cases {
		e, dice, _, _ := newTestEngine(t)
		dice.push(tc.draw)
		require.NoError(t, e.SubmitPlayerAttack(tc.index))
		opp, _ := e.Model().CurrentOpponent()
		assert.Equal(t, 100, opp.HP, "attack %d draw %v should miss", tc.index, tc.draw)
		assert.Equal(t, OpponentTurn, e.State())
	}
}

func TestEngine_FullExchange(t *testing.T) {
	e, dice, sched, rec := newTestEngine(t)
	rec.reset()

	// Player: hit, no crit, multiplier 0.8 -> floor(30*0.8) = 24.
	dice.push(0.10, 0.90, 0.0)
	require.NoError(t, e.SubmitPlayerAttack(1))

	sched.Advance(time.Second)
	assert.Equal(t, OpponentTurn, e.State())
	assert.ErrorIs(t, e.SubmitPlayerAttack(0), ErrInvalidTurnAction)

	// Opponent: level 1 -> base 8 * 0.9 = 7, name index 1, copilot rule misses.
	dice.push(0.0)
	dice.pushInts(1)
	dice.push(0.99)
	sched.Advance(2 * time.Second)

	assert.Equal(t, ResolvingOpponentAttack, e.State())
	assert.Equal(t, 93, e.Model().Player.HP)
	assert.Equal(t, Message{Text: "Copilot used IntelliSense Blast! Dealt 7 damage to Cursor!", Category: CategoryOpponent}, rec.lastMessage())

	// The player bar only moves once the opponent animation completes.
	for _, h := range rec.health {
		assert.NotEqual(t, SidePlayer, h.side)
	}
	assert.ErrorIs(t, e.SubmitPlayerAttack(0), ErrInvalidTurnAction)

	sched.Advance(time.Second)
	assert.Equal(t, PlayerTurn, e.State())
	assert.Equal(t, healthUpdate{SidePlayer, 93, 100}, rec.health[len(rec.health)-1])
	assert.Equal(t, 0, sched.Pending())
	assert.Contains(t, rec.events, "animation:opponent")
}

func TestEngine_OpponentModifierTagged(t *testing.T) {
	e, dice, sched, rec := newTestEngine(t)

	dice.push(0.99) // miss
	require.NoError(t, e.SubmitPlayerAttack(3))

	// base 7, copilot rule fires (0.1 < 0.3): floor(7*0.8) = 5
	dice.push(0.0)
	dice.pushInts(2)
	dice.push(0.1)
	sched.Advance(2 * time.Second)

	assert.Equal(t, "Copilot used TypeScript Strike! Dealt 5 damage to Cursor! (Performance issues!)", rec.lastMessage().Text)
	assert.Equal(t, 95, e.Model().Player.HP)
}

func TestEngine_MercyRule(t *testing.T) {
	e, dice, sched, rec := newTestEngine(t)
	e.Model().OpponentIndex = 3
	e.Model().Level = 4
	e.Model().Player.HP = 40

	expectedHP := 40
	for round := 0; round < 3; round++ {
		dice.push(0.99) // miss
		require.NoError(t, e.SubmitPlayerAttack(0), "round %d", round)

		// base floor(14 * 0.9) = 12, mercy floor(12 * 0.7) = 8. No draw for the rule.
		dice.push(0.0)
		dice.pushInts(0)
		sched.Advance(2 * time.Second)

		expectedHP -= 8
		assert.Equal(t, "Claude Code used Ethical Strike! Dealt 8 damage to Cursor! (Shows mercy!)", rec.lastMessage().Text)
		assert.Equal(t, expectedHP, e.Model().Player.HP)

		sched.Advance(time.Second)
		require.Equal(t, PlayerTurn, e.State())
	}
}

func TestEngine_OpponentDefeatAdvancesOnce(t *testing.T) {
	e, dice, sched, rec := newTestEngine(t)
	e.Model().Opponents[0].HP = 5
	rec.reset()

	// hit, no crit, floor(15*0.8) = 12 -> clamped at 0
	dice.push(0.0, 0.99, 0.0)
	require.NoError(t, e.SubmitPlayerAttack(0))

	assert.Equal(t, 0, e.Model().Opponents[0].HP)
	assert.Equal(t, Won, e.State())
	n := len(rec.messages)
	require.GreaterOrEqual(t, n, 3)
	assert.Equal(t, "*** Copilot FALLS! ***", rec.messages[n-2].Text)
	assert.Equal(t, "Cursor defeats Copilot! Victory!", rec.messages[n-1].Text)

	// Input during the victory animation is inert.
	assert.ErrorIs(t, e.SubmitPlayerAttack(0), ErrInvalidTurnAction)
	assert.ErrorIs(t, e.RequestNextLevel(), ErrInvalidTurnAction)

	sched.Advance(time.Second)
	assert.Equal(t, Inactive, e.State())
	assert.False(t, e.Active())
	assert.Equal(t, []Outcome{OutcomeWon}, rec.outcomes)
	assert.Equal(t, 0, e.Model().OpponentIndex)

	sched.Advance(time.Second)
	assert.Equal(t, 1, e.Model().OpponentIndex)
	assert.Equal(t, 2, e.Model().Level)
	assert.Equal(t, "*** VICTORY! Proceeding to next level... ***", rec.lastMessage().Text)
	assert.Empty(t, rec.advanced)

	sched.Advance(time.Second)
	require.Len(t, rec.advanced, 1)
	assert.Equal(t, OpponentWindsurf, rec.advanced[0].ID)
	assert.Equal(t, 0, sched.Pending())

	// Nothing else is pending: progress cannot move again.
	sched.RunAll(10)
	assert.Equal(t, 1, e.Model().OpponentIndex)
	assert.Equal(t, 2, e.Model().Level)

	e.Model().Player.HP = 12
	require.NoError(t, e.RequestNextLevel())
	assert.Equal(t, PlayerTurn, e.State())
	assert.True(t, e.Active())
	assert.Equal(t, 100, e.Model().Player.HP)
	assert.Equal(t, ">> Cursor enters the Cognition office!", e.Messages()[0].Text)
	assert.Equal(t, "Loading battle sequence...", e.Messages()[len(e.Messages())-1].Text)

	// A second request hits the fresh session and is ignored.
	assert.ErrorIs(t, e.RequestNextLevel(), ErrInvalidTurnAction)
	assert.Equal(t, 1, e.Model().OpponentIndex)
}

func TestEngine_PlayerDefeat(t *testing.T) {
	e, dice, sched, rec := newTestEngine(t)
	e.Model().Player.HP = 5

	dice.push(0.99)
	require.NoError(t, e.SubmitPlayerAttack(0))

	dice.push(0.0)
	dice.pushInts(0)
	dice.push(0.99)
	sched.Advance(2 * time.Second)
	assert.Equal(t, 0, e.Model().Player.HP)

	sched.Advance(time.Second)
	assert.Equal(t, "Cursor has been defeated!", rec.lastMessage().Text)
	assert.Equal(t, Inactive, e.State())
	assert.Equal(t, []Outcome{OutcomeLost}, rec.outcomes)
	assert.Equal(t, 0, rec.gameOver)
	assert.ErrorIs(t, e.SubmitPlayerAttack(0), ErrInvalidTurnAction)
	assert.ErrorIs(t, e.RequestNextLevel(), ErrInvalidTurnAction)

	sched.Advance(2 * time.Second)
	assert.Equal(t, 1, rec.gameOver)
	assert.Equal(t, OutcomeLost, e.Snapshot().Outcome)
}

func TestEngine_CompleteGameAndRestart(t *testing.T) {
	e, dice, sched, rec := newTestEngine(t)

	for i := range e.Model().Opponents {
		e.Model().Opponents[i].HP = 1
		dice.push(0.0, 0.99, 0.0)
		require.NoError(t, e.SubmitPlayerAttack(0), "opponent %d", i)

		sched.Advance(time.Second) // deactivate
		sched.Advance(time.Second) // advance progress
		if i < len(e.Model().Opponents)-1 {
			sched.Advance(time.Second) // announce next
			require.NoError(t, e.RequestNextLevel())
		}
	}

	assert.True(t, e.Model().IsComplete())
	assert.Equal(t, 4, e.Model().OpponentIndex)
	assert.Equal(t, 5, e.Model().Level)
	assert.Equal(t, 1, rec.complete)
	assert.Len(t, rec.advanced, 3)
	assert.Equal(t, 0, sched.Pending(), "no opponent logic runs after completion")

	_, err := e.Model().CurrentOpponent()
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.ErrorIs(t, e.SubmitPlayerAttack(0), ErrInvalidTurnAction)
	assert.ErrorIs(t, e.RequestNextLevel(), ErrInvalidTurnAction)

	snap := e.Snapshot()
	assert.True(t, snap.Complete)
	require.NotNil(t, snap.Opponent)
	assert.Equal(t, OpponentClaude, snap.Opponent.ID)

	e.RequestRestart()
	assert.Equal(t, 0, e.Model().OpponentIndex)
	assert.Equal(t, 1, e.Model().Level)
	assert.False(t, e.Model().IsComplete())
	for _, opp := range e.Model().Opponents {
		assert.Equal(t, opp.MaxHP, opp.HP, opp.ID)
	}
	assert.Equal(t, PlayerTurn, e.State())
	assert.True(t, e.Active())
}

func TestEngine_RestartDropsPendingContinuation(t *testing.T) {
	e, dice, sched, rec := newTestEngine(t)

	dice.push(0.0, 0.99, 0.0)
	require.NoError(t, e.SubmitPlayerAttack(0))
	require.Equal(t, 1, sched.Pending())

	e.RequestRestart()
	rec.reset()

	// The stale continuation fires but touches nothing. The scripted dice
	// would fail the test if an opponent attack were rolled.
	sched.RunAll(10)
	assert.Equal(t, PlayerTurn, e.State())
	assert.Empty(t, rec.events)
	assert.Equal(t, 0, sched.Pending())

	// Re-entrant restarts are harmless.
	e.RequestRestart()
	e.RequestRestart()
	assert.Equal(t, PlayerTurn, e.State())
}

func TestEngine_UnknownAttack(t *testing.T) {
	e, _, sched, _ := newTestEngine(t)

	for _, idx := range []int{-1, 4, 99} {
		err := e.SubmitPlayerAttack(idx)
		assert.True(t, errors.Is(err, ErrUnknownAttack))
		assert.True(t, errors.Is(err, ErrInvalidTurnAction))
	}
	assert.Equal(t, PlayerTurn, e.State())
	assert.Equal(t, 0, sched.Pending())
}

func TestEngine_LogIsBounded(t *testing.T) {
	e, dice, sched, _ := newTestEngine(t)

	for i := 0; i < 8; i++ {
		dice.push(0.99)
		require.NoError(t, e.SubmitPlayerAttack(0))
		dice.push(0.0)
		dice.pushInts(0)
		dice.push(0.99)
		sched.Advance(3 * time.Second)
	}
	msgs := e.Messages()
	assert.Len(t, msgs, MaxLogEntries)
	assert.Equal(t, "Copilot used Code Suggestion! Dealt 7 damage to Cursor!", msgs[len(msgs)-1].Text)
}

func TestEngine_SnapshotJSON(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	data, err := json.Marshal(e.Snapshot())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "player_turn", decoded["state"])
	assert.Equal(t, float64(1), decoded["level"])
	assert.Equal(t, true, decoded["active"])

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, PlayerTurn, snap.State)
	assert.Len(t, snap.Player.Attacks, 4)
}
