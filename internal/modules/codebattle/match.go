package codebattle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nfrund/codebattle/internal/battle"
	"github.com/nfrund/codebattle/internal/modules/codebattle/components"
	"github.com/nfrund/codebattle/internal/modules/codebattle/events"
)

// loopBuffer is the number of queued inputs a match accepts before Do blocks.
const loopBuffer = 64

// ErrUnknownCommand is returned for a command action the match does not know.
var ErrUnknownCommand = errors.New("codebattle: unknown command")

// Match is one player's game: an engine, the presenter observing it, and the
// loop that serializes everything touching them.
type Match struct {
	PlayerID string

	loop      *battle.Loop
	engine    *battle.Engine
	presenter *Presenter
	logger    *slog.Logger
	lastSeen  atomic.Int64
}

func newMatch(ctx context.Context, playerID string, cfg ArenaConfig) *Match {
	logger := cfg.Logger.With("player_id", playerID)
	m := &Match{
		PlayerID: playerID,
		loop:     battle.NewLoop(loopBuffer, logger),
		logger:   logger,
	}
	m.presenter = NewPresenter(ctx, playerID, cfg.Publisher, cfg.AutoAdvance, logger)

	opts := []battle.Option{
		battle.WithObserver(m.presenter),
		battle.WithDelays(cfg.Delays),
		battle.WithLogger(logger),
	}
	if cfg.NewDice != nil {
		opts = append(opts, battle.WithDice(cfg.NewDice()))
	}

	// The engine is built before the loop starts, so nothing else can touch it yet.
	m.engine = battle.New(m.loop, opts...)
	m.presenter.snapshot = m.engine.Snapshot
	m.presenter.advance = func() {
		// Queued behind the current task; the engine must not be re-entered
		// from inside an observer callback.
		m.loop.After(0, func() {
			if err := m.engine.RequestNextLevel(); err != nil {
				logger.Debug("Auto-advance skipped", "error", err)
			}
		})
	}

	go m.loop.Run(ctx)
	return m
}

// Attack submits the player's attack. Out-of-turn input yields
// battle.ErrInvalidTurnAction.
func (m *Match) Attack(ctx context.Context, index int) error {
	return m.loop.Call(ctx, func() error {
		return m.engine.SubmitPlayerAttack(index)
	})
}

// NextLevel starts the next battle once the level advance was announced.
func (m *Match) NextLevel(ctx context.Context) error {
	return m.loop.Call(ctx, m.engine.RequestNextLevel)
}

// Restart starts over from level 1.
func (m *Match) Restart(ctx context.Context) error {
	return m.loop.Call(ctx, func() error {
		m.engine.RequestRestart()
		return nil
	})
}

// View returns a consistent copy of what the player should see.
func (m *Match) View(ctx context.Context) (components.ArenaView, error) {
	var v components.ArenaView
	err := m.loop.Call(ctx, func() error {
		v, _ = m.presenter.View()
		return nil
	})
	return v, err
}

// Dispatch queues a command without waiting for it. Rejected commands are
// logged; the player sees the unchanged state.
func (m *Match) Dispatch(cmd events.Command) error {
	var fn func() error
	switch cmd.Action {
	case events.ActionAttack:
		fn = func() error { return m.engine.SubmitPlayerAttack(cmd.Index) }
	case events.ActionNext:
		fn = m.engine.RequestNextLevel
	case events.ActionRestart:
		fn = func() error {
			m.engine.RequestRestart()
			return nil
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Action)
	}

	ok := m.loop.Do(func() {
		if err := fn(); err != nil {
			m.logger.Debug("Command rejected", "action", cmd.Action, "error", err)
		}
	})
	if !ok {
		return battle.ErrLoopClosed
	}
	return nil
}

// Resync republishes the current screen with a full snapshot.
func (m *Match) Resync() error {
	if !m.loop.Do(m.presenter.publishScreen) {
		return battle.ErrLoopClosed
	}
	return nil
}

// Close stops the match loop. Pending continuations are dropped.
func (m *Match) Close() {
	m.loop.Close()
}

func (m *Match) touch(now time.Time) {
	m.lastSeen.Store(now.UnixNano())
}

func (m *Match) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, m.lastSeen.Load()))
}
