package codebattle

import (
	"context"
	"log/slog"

	"github.com/nfrund/codebattle/internal/battle"
	"github.com/nfrund/codebattle/internal/modules/codebattle/components"
	"github.com/nfrund/codebattle/internal/modules/codebattle/events"
	"github.com/nfrund/codebattle/internal/modules/codebattle/topics"
	"github.com/nfrund/codebattle/internal/pubsub"
)

// Presenter turns engine callbacks into typed events addressed to one player.
// It runs on the match loop, like the engine that calls it.
type Presenter struct {
	ctx         context.Context
	playerID    string
	publisher   pubsub.Publisher
	autoAdvance bool
	logger      *slog.Logger

	// snapshot reads the engine. It is nil while the engine is being built.
	snapshot func() battle.Snapshot
	// advance is called when the next level may start and auto-advance is on.
	advance func()

	screen string
}

var _ battle.Observer = (*Presenter)(nil)

// NewPresenter creates a presenter publishing on behalf of playerID.
func NewPresenter(ctx context.Context, playerID string, publisher pubsub.Publisher, autoAdvance bool, logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Presenter{
		ctx:         ctx,
		playerID:    playerID,
		publisher:   publisher,
		autoAdvance: autoAdvance,
		logger:      logger,
		screen:      events.ScreenBattle,
	}
}

// Screen is the screen the player currently sees.
func (p *Presenter) Screen() string {
	return p.screen
}

func (p *Presenter) OnBattleStarted(level int, opponent *battle.Opponent) {
	p.screen = events.ScreenBattle
	p.publishScreen()
}

func (p *Presenter) OnMessage(msg battle.Message) {
	publish(p, topics.TopicMessage, events.Message{Text: msg.Text, Category: msg.Category})
}

func (p *Presenter) OnHealthChanged(side battle.Side, current, max int) {
	publish(p, topics.TopicHealth, events.Health{Side: side, Current: current, Max: max})
}

func (p *Presenter) OnTurnChanged(turn battle.Turn) {
	publish(p, topics.TopicTurn, events.Turn{Turn: turn, Active: true})
}

func (p *Presenter) OnAttackAnimation(attackIndex int, critical bool) {
	attacks := battle.PlayerAttacks()
	heavy := attackIndex >= 0 && attackIndex < len(attacks) && attacks[attackIndex].Power > components.HeavyAttackPower
	publish(p, topics.TopicAnimation, events.Animation{
		Actor:       events.ActorPlayer,
		AttackIndex: attackIndex,
		Effect:      components.EffectClass(attackIndex),
		Critical:    critical,
		Heavy:       heavy,
	})
}

func (p *Presenter) OnOpponentAttackAnimation() {
	publish(p, topics.TopicAnimation, events.Animation{Actor: events.ActorOpponent, AttackIndex: -1})
}

func (p *Presenter) OnBattleEnded(outcome battle.Outcome) {
	publish(p, topics.TopicTurn, events.Turn{Active: false})
}

func (p *Presenter) OnLevelAdvanced(next *battle.Opponent) {
	if p.autoAdvance && p.advance != nil {
		p.advance()
		return
	}
	p.screen = events.ScreenLevelComplete
	p.publishScreen()
}

func (p *Presenter) OnGameComplete() {
	p.screen = events.ScreenVictory
	p.publishScreen()
}

func (p *Presenter) OnGameOver() {
	p.screen = events.ScreenGameOver
	p.publishScreen()
}

// View returns what the player should currently see.
func (p *Presenter) View() (components.ArenaView, bool) {
	if p.snapshot == nil {
		return components.ArenaView{}, false
	}
	return components.ArenaView{
		Screen:      p.screen,
		AutoAdvance: p.autoAdvance,
		Snapshot:    p.snapshot(),
	}, true
}

// publishScreen sends the full state for the current screen.
func (p *Presenter) publishScreen() {
	v, ok := p.View()
	if !ok {
		return
	}
	publish(p, topics.TopicScreen, events.Screen{
		Screen:      v.Screen,
		AutoAdvance: v.AutoAdvance,
		Snapshot:    v.Snapshot,
	})
}

func publish[T any](p *Presenter, event pubsub.Event[T], payload T) {
	if err := pubsub.PublishFor(p.ctx, p.publisher, event, p.playerID, payload); err != nil {
		p.logger.Error("Failed to publish battle event", "topic", event.Name(), "error", err)
	}
}
