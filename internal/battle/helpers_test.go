package battle

import (
	"io"
	"log/slog"
	"testing"
)

// scriptedDice returns pre-recorded draws and fails the test when a draw is
// requested that the script did not anticipate.
type scriptedDice struct {
	t      *testing.T
	floats []float64
	ints   []int
}

func (d *scriptedDice) Float64() float64 {
	d.t.Helper()
	if len(d.floats) == 0 {
		d.t.Fatalf("unexpected Float64 draw")
	}
	v := d.floats[0]
	d.floats = d.floats[1:]
	return v
}

func (d *scriptedDice) IntN(n int) int {
	d.t.Helper()
	if len(d.ints) == 0 {
		d.t.Fatalf("unexpected IntN(%d) draw", n)
	}
	v := d.ints[0]
	d.ints = d.ints[1:]
	return v % n
}

func (d *scriptedDice) push(floats ...float64) {
	d.floats = append(d.floats, floats...)
}

func (d *scriptedDice) pushInts(ints ...int) {
	d.ints = append(d.ints, ints...)
}

type healthUpdate struct {
	side    Side
	current int
	max     int
}

// recorder captures every observer callback in order.
type recorder struct {
	events    []string
	messages  []Message
	health    []healthUpdate
	outcomes  []Outcome
	advanced  []*Opponent
	started   []int
	complete  int
	gameOver  int
	attackAni []int
}

func (r *recorder) OnBattleStarted(level int, _ *Opponent) {
	r.events = append(r.events, "started")
	r.started = append(r.started, level)
}

func (r *recorder) OnMessage(m Message) {
	r.events = append(r.events, "message")
	r.messages = append(r.messages, m)
}

func (r *recorder) OnHealthChanged(side Side, current, max int) {
	r.events = append(r.events, "health:"+string(side))
	r.health = append(r.health, healthUpdate{side, current, max})
}

func (r *recorder) OnTurnChanged(turn Turn) {
	r.events = append(r.events, "turn:"+string(turn))
}

func (r *recorder) OnAttackAnimation(idx int, _ bool) {
	r.events = append(r.events, "animation:player")
	r.attackAni = append(r.attackAni, idx)
}

func (r *recorder) OnOpponentAttackAnimation() {
	r.events = append(r.events, "animation:opponent")
}

func (r *recorder) OnBattleEnded(o Outcome) {
	r.events = append(r.events, "ended:"+string(o))
	r.outcomes = append(r.outcomes, o)
}

func (r *recorder) OnLevelAdvanced(next *Opponent) {
	r.events = append(r.events, "advanced")
	r.advanced = append(r.advanced, next)
}

func (r *recorder) OnGameComplete() {
	r.events = append(r.events, "complete")
	r.complete++
}

func (r *recorder) OnGameOver() {
	r.events = append(r.events, "gameover")
	r.gameOver++
}

func (r *recorder) lastMessage() Message {
	if len(r.messages) == 0 {
		return Message{}
	}
	return r.messages[len(r.messages)-1]
}

func (r *recorder) reset() {
	*r = recorder{}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine wires an engine to scripted dice, a manual clock and a recorder.
func newTestEngine(t *testing.T) (*Engine, *scriptedDice, *ManualScheduler, *recorder) {
	t.Helper()
	dice := &scriptedDice{t: t}
	sched := NewManualScheduler()
	rec := &recorder{}
	e := New(sched,
		WithDice(dice),
		WithObserver(rec),
		WithLogger(quietLogger()),
	)
	return e, dice, sched, rec
}
