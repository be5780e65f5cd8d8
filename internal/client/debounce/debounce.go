// Package debounce provides a trailing-edge debouncer.
package debounce

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run on its own goroutine after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer collapses bursts of Trigger calls into one call of fn with the
// last argument, fired delay after the last Trigger.
type Debouncer[T any] struct {
	delay     time.Duration
	fn        func(T)
	afterFunc AfterFunc

	mu      sync.Mutex
	timer   Timer
	seq     uint64
	stopped bool
}

func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return NewWithTimer(delay, fn, realAfterFunc)
}

// NewWithTimer is New with an explicit timer source.
func NewWithTimer[T any](delay time.Duration, fn func(T), afterFunc AfterFunc) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn, afterFunc: afterFunc}
}

// Trigger (re)arms the debouncer with arg. It is a no-op after Stop.
func (d *Debouncer[T]) Trigger(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	seq := d.seq
	d.timer = d.afterFunc(d.delay, func() { d.fire(seq, arg) })
}

// fire runs fn unless a later Trigger or Stop superseded this timer. Stop on
// a time.Timer whose function already started returns false, so the sequence
// check is what keeps a stale timer from firing.
func (d *Debouncer[T]) fire(seq uint64, arg T) {
	d.mu.Lock()
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn(arg)
}

// Stop cancels any pending call; later triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a call is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
