// Package loop provides the single-threaded "UI turn" executor. Everything
// that touches the bus, the session or a gate runs as a closure posted to one
// Loop, so those components never observe concurrent mutation. Collaborators
// that complete work on other goroutines hand their results over with Post.
package loop

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Buffer size of the post channel. Posting blocks once it is full.
const defaultBuffer = 128

var (
	// ErrStopped is returned when work is handed to a loop that is not running
	// any more.
	ErrStopped = errors.New("loop stopped")
	// ErrAlreadyRunning is returned by a second Run call.
	ErrAlreadyRunning = errors.New("loop already running")
)

// Loop runs posted closures one at a time, in posting order.
type Loop struct {
	postCh  chan func()
	done    chan struct{}
	running atomic.Bool
	turns   atomic.Uint64
	log     zerolog.Logger
}

// New creates a Loop. buffer <= 0 selects the default.
func New(buffer int, log zerolog.Logger) *Loop {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Loop{
		postCh: make(chan func(), buffer),
		done:   make(chan struct{}),
		log:    log.With().Str("component", "loop").Logger(),
	}
}

// Post schedules fn for a later turn. It returns false, without running fn,
// if the loop has stopped. It never panics.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.postCh <- fn:
		return true
	case <-l.done:
		return false
	}
}

// States of a Call closure.
const (
	callPending int32 = iota
	callRunning
	callAbandoned
)

// Call posts fn and waits until it has run. If ctx ends or the loop stops
// before fn starts, fn is abandoned and never runs, and Call returns the
// error. Once fn has started, Call waits for it and returns nil.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	var state atomic.Int32
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		if !state.CompareAndSwap(callPending, callRunning) {
			return
		}
		fn()
	}) {
		return ErrStopped
	}
	var err error
	select {
	case <-ran:
		return nil
	case <-ctx.Done():
		err = ctx.Err()
	case <-l.done:
		err = ErrStopped
	}
	if state.CompareAndSwap(callPending, callAbandoned) {
		return err
	}
	// fn is running on the loop; it finishes within the current turn
	<-ran
	return nil
}

// Run executes posted closures until ctx is done. It may be called once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.postCh:
			l.turn(fn)
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Turns returns how many closures have run.
func (l *Loop) Turns() uint64 { return l.turns.Load() }

func (l *Loop) turn(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Str("panic", fmt.Sprint(r)).Msg("turn panicked")
		}
	}()
	l.turns.Inc()
	fn()
}
