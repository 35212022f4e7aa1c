package battle

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Delays are the presentation pauses between turn phases.
type Delays struct {
	// Attack is the animation time after either side attacks.
	Attack time.Duration
	// Opponent is the pause before the opponent strikes back.
	Opponent time.Duration
	// Defeat is the pause between deactivating a won battle and advancing.
	Defeat time.Duration
	// Advance is the pause before the next opponent is announced.
	Advance time.Duration
	// GameOver is the pause between a lost battle and the game-over screen.
	GameOver time.Duration
}

// DefaultDelays returns the standard pacing.
func DefaultDelays() Delays {
	return Delays{
		Attack:   time.Second,
		Opponent: 2 * time.Second,
		Defeat:   time.Second,
		Advance:  time.Second,
		GameOver: 2 * time.Second,
	}
}

// session is the transient per-fight state. A new session is created for every
// opponent and on restart; continuations scheduled by an older session no-op.
type session struct {
	id           uint64
	state        State
	active       bool
	pending      bool
	advanceReady bool
	outcome      Outcome
	log          *MessageLog
}

// Engine resolves attack exchanges and advances progress.
//
// Engine is not safe for concurrent use. Every exported method and every
// continuation handed to the Scheduler must run on the same goroutine; Loop
// provides that in the server.
type Engine struct {
	model    *Model
	session  *session
	sessions uint64

	dice     Dice
	sched    Scheduler
	observer Observer
	delays   Delays
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithDice sets the random source.
func WithDice(d Dice) Option {
	return func(e *Engine) { e.dice = d }
}

// WithObserver sets the receiver of engine events.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithDelays overrides the phase delays.
func WithDelays(d Delays) Option {
	return func(e *Engine) { e.delays = d }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine with a fresh model and starts the first battle.
func New(sched Scheduler, opts ...Option) *Engine {
	e := &Engine{
		sched:    sched,
		observer: BaseObserver{},
		delays:   DefaultDelays(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.dice == nil {
		e.dice = NewDice(uint64(time.Now().UnixNano()))
	}
	e.model = NewModel()
	e.begin(introWelcome)
	return e
}

// Model exposes the roster and progress. Callers must not mutate it.
func (e *Engine) Model() *Model {
	return e.model
}

// State returns the current state machine position.
func (e *Engine) State() State {
	return e.session.state
}

// Active reports whether the current battle still accepts actions.
func (e *Engine) Active() bool {
	return e.session.active
}

// Messages returns the current session's log, oldest first.
func (e *Engine) Messages() []Message {
	return e.session.log.Entries()
}

// SubmitPlayerAttack resolves the player's attack at index. Out-of-turn input
// returns ErrInvalidTurnAction and changes nothing.
func (e *Engine) SubmitPlayerAttack(index int) error {
	s := e.session
	if !s.active || s.state != PlayerTurn {
		return ErrInvalidTurnAction
	}
	attacks := e.model.Player.Attacks
	if index < 0 || index >= len(attacks) {
		return fmt.Errorf("%w: index %d", ErrUnknownAttack, index)
	}
	opp, err := e.model.CurrentOpponent()
	if err != nil {
		return err
	}

	attack := attacks[index]
	s.state = ResolvingPlayerAttack
	res := ResolveAttack(attack, e.dice)
	e.logger.Debug("Player attack resolved",
		"attack", attack.Name,
		"hit_roll", res.HitRoll,
		"hit", res.Hit,
		"critical", res.Critical,
		"damage", res.Damage,
	)

	if !res.Hit {
		e.message(fmt.Sprintf("%s missed!", attack.Name), CategorySystem)
		e.endPlayerTurn(s)
		return nil
	}

	opp.HP = max(0, opp.HP-res.Damage)
	if res.Critical {
		e.message(fmt.Sprintf("%s used %s! Dealt %d CRITICAL damage!", PlayerName, attack.Name, res.Damage), CategoryPlayer)
	} else {
		e.message(fmt.Sprintf("%s used %s! Dealt %d damage!", PlayerName, attack.Name, res.Damage), CategoryPlayer)
	}
	e.observer.OnHealthChanged(SideOpponent, opp.HP, opp.MaxHP)

	if opp.HP == 0 {
		e.message(fmt.Sprintf("*** %s FALLS! ***", opp.Name), CategoryPlayer)
		e.message(fmt.Sprintf("%s defeats %s! Victory!", PlayerName, opp.Name), CategorySystem)
		e.observer.OnAttackAnimation(index, res.Critical)
		s.state = Won
		e.schedule(s, e.delays.Attack, e.opponentDefeated)
		return nil
	}

	e.observer.OnAttackAnimation(index, res.Critical)
	e.schedule(s, e.delays.Attack, e.endPlayerTurn)
	return nil
}

// RequestNextLevel starts the battle against the next opponent. It is only
// accepted once the level advance has been announced.
func (e *Engine) RequestNextLevel() error {
	s := e.session
	if !s.advanceReady {
		return ErrInvalidTurnAction
	}
	if err := e.model.resetForLevel(); err != nil {
		return err
	}
	e.begin(introNextLevel)
	return nil
}

// RequestRestart rebuilds the whole game from level 1. Any pending
// continuation of the old session becomes a no-op.
func (e *Engine) RequestRestart() {
	e.model = NewModel()
	e.begin(introNextLevel)
}

type introKind int

const (
	introWelcome introKind = iota
	introNextLevel
)

// begin replaces the session and announces the current opponent.
func (e *Engine) begin(kind introKind) {
	e.sessions++
	e.session = &session{
		id:     e.sessions,
		state:  PlayerTurn,
		active: true,
		log:    NewMessageLog(MaxLogEntries),
	}

	opp, err := e.model.CurrentOpponent()
	if err != nil {
		// Only reachable with a complete model, which begin is never handed.
		e.session.active = false
		e.session.state = Inactive
		e.logger.Error("Cannot start battle", "error", err)
		return
	}

	e.logger.Info("Battle started", "session", e.session.id, "battle_level", e.model.Level, "opponent", opp.ID)
	e.observer.OnBattleStarted(e.model.Level, opp)
	e.observer.OnHealthChanged(SidePlayer, e.model.Player.HP, e.model.Player.MaxHP)
	e.observer.OnHealthChanged(SideOpponent, opp.HP, opp.MaxHP)

	if kind == introWelcome {
		e.message(">> Welcome to Code Battle!", CategoryPlayer)
	}
	e.message(fmt.Sprintf(">> %s enters the %s office!", PlayerName, opp.Office), CategoryPlayer)
	e.message(fmt.Sprintf(">> %s appears! %s", opp.Name, opp.Personality), CategoryOpponent)
	e.message(fmt.Sprintf(">> Special abilities: %s", strings.Join(opp.SpecialAbilities, ", ")), CategorySystem)
	if kind == introWelcome {
		e.message(">> Choose your attack to begin!", CategorySystem)
	} else {
		e.message("Loading battle sequence...", CategorySystem)
	}
	e.observer.OnTurnChanged(TurnPlayer)
}

// schedule arms one continuation for s. A session never holds more than one
// pending continuation, and a continuation whose session has been replaced
// does nothing when it fires.
func (e *Engine) schedule(s *session, d time.Duration, fn func(*session)) {
	if s.pending {
		e.logger.Warn("Continuation already pending, dropping", "session", s.id, "state", s.state)
		return
	}
	s.pending = true
	e.sched.After(d, func() {
		if e.session != s {
			return
		}
		s.pending = false
		fn(s)
	})
}

func (e *Engine) message(text string, cat Category) {
	m := Message{Text: text, Category: cat}
	e.session.log.Append(m)
	e.observer.OnMessage(m)
}

func (e *Engine) endPlayerTurn(s *session) {
	s.state = OpponentTurn
	e.observer.OnTurnChanged(TurnOpponent)
	e.schedule(s, e.delays.Opponent, e.opponentAttack)
}

func (e *Engine) opponentAttack(s *session) {
	if !s.active || s.state != OpponentTurn || e.model.IsComplete() {
		return
	}
	opp, err := e.model.CurrentOpponent()
	if err != nil || opp.HP <= 0 {
		return
	}

	s.state = ResolvingOpponentAttack
	player := e.model.Player
	res := ResolveOpponentAttack(opp, e.model.Level, player, e.dice)
	player.HP = max(0, player.HP-res.Damage)
	e.logger.Debug("Opponent attack resolved",
		"opponent", opp.ID,
		"attack", res.AttackName,
		"damage", res.Damage,
		"tag", res.Tag,
	)

	e.message(fmt.Sprintf("%s used %s! Dealt %d damage to %s!%s", opp.Name, res.AttackName, res.Damage, PlayerName, res.Tag), CategoryOpponent)
	e.observer.OnOpponentAttackAnimation()
	e.schedule(s, e.delays.Attack, e.finishOpponentTurn)
}

func (e *Engine) finishOpponentTurn(s *session) {
	player := e.model.Player
	e.observer.OnHealthChanged(SidePlayer, player.HP, player.MaxHP)

	if player.HP == 0 {
		e.message(fmt.Sprintf("%s has been defeated!", PlayerName), CategoryOpponent)
		s.state = Lost
		e.playerDefeated(s)
		return
	}
	s.state = PlayerTurn
	e.observer.OnTurnChanged(TurnPlayer)
}

func (e *Engine) opponentDefeated(s *session) {
	e.deactivate(s, OutcomeWon)
	e.schedule(s, e.delays.Defeat, e.advance)
}

func (e *Engine) playerDefeated(s *session) {
	e.deactivate(s, OutcomeLost)
	e.schedule(s, e.delays.GameOver, func(*session) {
		e.logger.Info("Game over", "battle_level", e.model.Level)
		e.observer.OnGameOver()
	})
}

func (e *Engine) deactivate(s *session, outcome Outcome) {
	s.active = false
	s.state = Inactive
	s.outcome = outcome
	e.logger.Info("Battle ended", "session", s.id, "outcome", outcome, "battle_level", e.model.Level)
	e.observer.OnBattleEnded(outcome)
}

// advance moves progress past the defeated opponent, exactly once per win.
func (e *Engine) advance(s *session) {
	e.model.OpponentIndex++
	e.model.Level++

	if e.model.IsComplete() {
		e.logger.Info("All opponents defeated")
		e.observer.OnGameComplete()
		return
	}

	e.message("*** VICTORY! Proceeding to next level... ***", CategorySystem)
	e.schedule(s, e.delays.Advance, func(s *session) {
		next, err := e.model.CurrentOpponent()
		if err != nil {
			return
		}
		s.advanceReady = true
		e.observer.OnLevelAdvanced(next)
	})
}
