package battle

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs a continuation after a delay. Implementations must run fn on
// the same logical timeline as the engine's other entry points.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type scheduledTask struct {
	due time.Duration
	seq uint64
	fn  func()
}

// ManualScheduler is a virtual clock. Continuations run only when the clock
// is advanced, in due-time order, on the caller's goroutine.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	tasks []scheduledTask
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// After implements Scheduler.
func (m *ManualScheduler) After(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.tasks = append(m.tasks, scheduledTask{due: m.now + d, seq: m.seq, fn: fn})
}

// Now returns the virtual time elapsed since creation.
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of continuations waiting to run.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// pop removes the earliest task due at or before limit.
func (m *ManualScheduler) pop(limit time.Duration, bounded bool) (scheduledTask, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tasks) == 0 {
		return scheduledTask{}, false
	}
	sort.Slice(m.tasks, func(i, j int) bool {
		if m.tasks[i].due == m.tasks[j].due {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].due < m.tasks[j].due
	})
	next := m.tasks[0]
	if bounded && next.due > limit {
		return scheduledTask{}, false
	}
	m.tasks = m.tasks[1:]
	if next.due > m.now {
		m.now = next.due
	}
	return next, true
}

// RunNext jumps the clock to the earliest pending continuation and runs it.
func (m *ManualScheduler) RunNext() bool {
	task, ok := m.pop(0, false)
	if !ok {
		return false
	}
	task.fn()
	return true
}

// Advance moves the clock forward by d, running every continuation that
// becomes due, including ones scheduled while advancing.
func (m *ManualScheduler) Advance(d time.Duration) int {
	limit := m.Now() + d
	ran := 0
	for {
		task, ok := m.pop(limit, true)
		if !ok {
			break
		}
		task.fn()
		ran++
	}
	m.mu.Lock()
	if m.now < limit {
		m.now = limit
	}
	m.mu.Unlock()
	return ran
}

// RunAll runs continuations until none remain or limit have run.
func (m *ManualScheduler) RunAll(limit int) int {
	ran := 0
	for ran < limit && m.RunNext() {
		ran++
	}
	return ran
}
