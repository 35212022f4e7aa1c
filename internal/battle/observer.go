package battle

// Category is the styling class of a log message. It has no semantic effect.
type Category string

const (
	CategoryPlayer   Category = "player-text"
	CategoryOpponent Category = "opponent-text"
	CategorySystem   Category = "system-text"
)

// Message is one battle log entry.
type Message struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Side identifies a combatant for health updates.
type Side string

const (
	SidePlayer   Side = "player"
	SideOpponent Side = "opponent"
)

// Turn identifies whose move it is.
type Turn string

const (
	TurnPlayer   Turn = "player"
	TurnOpponent Turn = "opponent"
)

// Outcome is the result of a finished battle.
type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// Observer receives every visible effect of the engine. The engine calls it
// synchronously from whatever goroutine drives the engine; implementations
// must not call back into the engine.
type Observer interface {
	OnBattleStarted(level int, opponent *Opponent)
	OnMessage(msg Message)
	OnHealthChanged(side Side, current, max int)
	OnTurnChanged(turn Turn)
	OnAttackAnimation(attackIndex int, critical bool)
	OnOpponentAttackAnimation()
	OnBattleEnded(outcome Outcome)
	OnLevelAdvanced(next *Opponent)
	OnGameComplete()
	OnGameOver()
}

// BaseObserver provides no-op implementations of every Observer method.
// Observers can embed it and override only what they need.
type BaseObserver struct{}

func (BaseObserver) OnBattleStarted(int, *Opponent)  {}
func (BaseObserver) OnMessage(Message)               {}
func (BaseObserver) OnHealthChanged(Side, int, int)  {}
func (BaseObserver) OnTurnChanged(Turn)              {}
func (BaseObserver) OnAttackAnimation(int, bool)     {}
func (BaseObserver) OnOpponentAttackAnimation()      {}
func (BaseObserver) OnBattleEnded(Outcome)           {}
func (BaseObserver) OnLevelAdvanced(*Opponent)       {}
func (BaseObserver) OnGameComplete()                 {}
func (BaseObserver) OnGameOver()                     {}

var _ Observer = BaseObserver{}
