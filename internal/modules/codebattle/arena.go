package codebattle

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/codebattle/internal/battle"
	"github.com/nfrund/codebattle/internal/pubsub"
)

// ArenaConfig configures every match the arena creates.
type ArenaConfig struct {
	Publisher   pubsub.Publisher
	AutoAdvance bool
	Delays      battle.Delays
	// IdleTTL is how long a match survives without input. Zero keeps matches forever.
	IdleTTL time.Duration
	Logger  *slog.Logger
	// NewDice overrides the random source of new matches.
	NewDice func() battle.Dice
	// Online reports whether a player still has a connection open. Idle
	// matches of online players are not evicted.
	Online func(playerID string) bool
}

// Arena owns one match per player.
type Arena struct {
	cfg    ArenaConfig
	ctx    context.Context
	cancel context.CancelFunc
	now    func() time.Time

	mu       sync.Mutex
	matches  map[string]*Match
	// creating holds a channel per player whose match is being built. It is
	// closed once the match is in matches.
	creating map[string]chan struct{}
}

// NewArena creates an empty arena.
func NewArena(cfg ArenaConfig) *Arena {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Arena{
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		now:     time.Now,
		matches:  make(map[string]*Match),
		creating: make(map[string]chan struct{}),
	}
}

// Get returns the player's match, starting a new game if there is none.
// The match is built outside the arena lock; concurrent callers for the
// same player wait for it instead of building a second one.
func (a *Arena) Get(playerID string) *Match {
	a.mu.Lock()
	for {
		if m, ok := a.matches[playerID]; ok {
			m.touch(a.now())
			a.mu.Unlock()
			return m
		}
		wait, busy := a.creating[playerID]
		if !busy {
			break
		}
		a.mu.Unlock()
		<-wait
		a.mu.Lock()
	}
	done := make(chan struct{})
	a.creating[playerID] = done
	a.mu.Unlock()

	m := newMatch(a.ctx, playerID, a.cfg)
	m.touch(a.now())

	a.mu.Lock()
	a.matches[playerID] = m
	delete(a.creating, playerID)
	count := len(a.matches)
	a.mu.Unlock()
	close(done)

	a.cfg.Logger.Info("Match created", "player_id", playerID, "matches", count)
	return m
}

// Lookup returns the player's match if one exists.
func (a *Arena) Lookup(playerID string) (*Match, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, ok := a.matches[playerID]
	if ok {
		m.touch(a.now())
	}
	return m, ok
}

// Len is the number of live matches.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.matches)
}

// EvictIdle closes matches idle for longer than IdleTTL and returns how many
// were removed.
func (a *Arena) EvictIdle() int {
	if a.cfg.IdleTTL <= 0 {
		return 0
	}
	now := a.now()

	a.mu.Lock()
	defer a.mu.Unlock()

	evicted := 0
	for id, m := range a.matches {
		if a.cfg.Online != nil && a.cfg.Online(id) {
			continue
		}
		if m.idleSince(now) > a.cfg.IdleTTL {
			m.Close()
			delete(a.matches, id)
			evicted++
		}
	}
	if evicted > 0 {
		a.cfg.Logger.Info("Evicted idle matches", "count", evicted, "remaining", len(a.matches))
	}
	return evicted
}

// RunJanitor evicts idle matches periodically until ctx is canceled.
func (a *Arena) RunJanitor(ctx context.Context) {
	if a.cfg.IdleTTL <= 0 {
		return
	}
	interval := max(a.cfg.IdleTTL/4, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.EvictIdle()
		}
	}
}

// Close stops every match.
func (a *Arena) Close() {
	a.cancel()

	a.mu.Lock()
	defer a.mu.Unlock()
	for id, m := range a.matches {
		m.Close()
		delete(a.matches, id)
	}
}
