// Package simulate plays complete games without a browser on a virtual clock.
package simulate

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nfrund/codebattle/internal/battle"
)

// Outcome is how a simulated game ended.
type Outcome string

const (
	OutcomeVictory    Outcome = "victory"
	OutcomeDefeat     Outcome = "defeat"
	OutcomeUnfinished Outcome = "unfinished"
)

// drainLimit caps the continuations run between two decisions.
const drainLimit = 10_000

// Result summarises a simulated game.
type Result struct {
	Seed    uint64
	Outcome Outcome
	Level   int
	Turns   int
	State   battle.State
	Elapsed time.Duration
}

// ErrStalled is returned when the engine neither waits for input nor has
// anything scheduled.
var ErrStalled = errors.New("simulation stalled")

// printer writes the battle log and remembers the end-of-level signals.
type printer struct {
	battle.BaseObserver
	w        io.Writer
	advanced bool
	complete bool
	over     bool
}

func (p *printer) OnMessage(m battle.Message)       { fmt.Fprintln(p.w, m.Text) }
func (p *printer) OnLevelAdvanced(*battle.Opponent) { p.advanced = true }
func (p *printer) OnGameComplete()                  { p.complete = true }
func (p *printer) OnGameOver()                      { p.over = true }

// Run plays one game with dice seeded by seed, writing every log line to w.
// The player picks attacks with battle.PickAttack and starts each next level
// as soon as it is offered. It stops after maxTurns player attacks.
func Run(seed uint64, maxTurns int, w io.Writer) (Result, error) {
	sched := battle.NewManualScheduler()
	p := &printer{w: w}
	engine := battle.New(sched,
		battle.WithDice(battle.NewDice(seed)),
		battle.WithObserver(p),
		battle.WithLogger(slog.New(slog.DiscardHandler)),
	)

	res := Result{Seed: seed}
	finish := func(o Outcome) (Result, error) {
		res.Outcome = o
		res.Level = engine.Model().Level
		res.State = engine.State()
		res.Elapsed = sched.Now()
		return res, nil
	}

	for {
		sched.RunAll(drainLimit)

		switch {
		case p.complete:
			return finish(OutcomeVictory)
		case p.over:
			return finish(OutcomeDefeat)
		case p.advanced:
			p.advanced = false
			if err := engine.RequestNextLevel(); err != nil {
				return res, fmt.Errorf("start level %d: %w", engine.Model().Level, err)
			}
			continue
		}

		if !engine.Active() || engine.State() != battle.PlayerTurn {
			return res, fmt.Errorf("%w in state %s", ErrStalled, engine.State())
		}
		if res.Turns >= maxTurns {
			return finish(OutcomeUnfinished)
		}

		opp, err := engine.Model().CurrentOpponent()
		if err != nil {
			return res, err
		}
		index := battle.PickAttack(engine.Model().Player.Attacks, opp.HP)
		if err := engine.SubmitPlayerAttack(index); err != nil {
			return res, fmt.Errorf("turn %d: %w", res.Turns+1, err)
		}
		res.Turns++
	}
}
