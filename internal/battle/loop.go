package battle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrLoopClosed is returned when work is submitted to a stopped loop.
var ErrLoopClosed = errors.New("battle: loop closed")

// Loop serializes every call into an engine onto one goroutine. Input is
// submitted with Do or Call; timed continuations from After are queued onto
// the same goroutine when their timer fires.
type Loop struct {
	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

// NewLoop creates a loop with the given task buffer. Run must be started
// before submitted work executes.
func NewLoop(buffer int, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		tasks:  make(chan func(), buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run processes tasks until the loop is closed or ctx is canceled.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case fn := <-l.tasks:
			l.exec(fn)
		case <-l.done:
			return
		case <-ctx.Done():
			l.Close()
			return
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Battle loop task panicked", "panic", r)
		}
	}()
	fn()
}

// Do queues fn. It reports false if the loop has been closed.
func (l *Loop) Do(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call queues fn and waits for its result.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if !l.Do(func() { result <- fn() }) {
		return ErrLoopClosed
	}
	select {
	case err := <-result:
		return err
	case <-l.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrLoopClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// After implements Scheduler. The continuation is dropped if the loop is
// closed before the timer fires.
func (l *Loop) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		if !l.Do(fn) {
			l.logger.Debug("Dropped continuation on closed battle loop", "delay", d)
		}
	})
}

// Close stops the loop. It is safe to call more than once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Done is closed once the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
