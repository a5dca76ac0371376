// Package deadline implements the single-shot, resettable timeout that
// drives an ephemeral server's shutdown on inactivity (spec.md §4.5).
package deadline

import (
	"sync"
	"sync/atomic"
	"time"
)

// State values for Controller.State().
const (
	StateArmed int32 = iota
	StateFired
	StateCancelled
)

// Controller is a single-shot deadline timer: Armed transitions to either
// Fired or Cancelled, both terminal. Reset re-arms at the full duration
// but only while still Armed, and only if the controller was built with
// resetOnError — otherwise it is a no-op, matching
// FormServer.reset_timeout_on_error in the original implementation.
type Controller struct {
	duration     time.Duration
	resetOnError bool
	onFire       func()

	mu    sync.Mutex
	timer *time.Timer
	state atomic.Int32
}

// New builds a Controller that, once armed, waits duration before calling
// onFire exactly once (unless reset or cancelled first). onFire must be
// safe to call from the timer's own goroutine.
func New(duration time.Duration, resetOnError bool, onFire func()) *Controller {
	return &Controller{duration: duration, resetOnError: resetOnError, onFire: onFire}
}

// Arm starts the timer. Calling Arm more than once replaces the pending
// timer (callers should call it exactly once per run).
func (c *Controller) Arm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer = time.AfterFunc(c.duration, c.fire)
}

// Reset cancels any pending timer and re-arms at the full duration, but
// only if resetOnError was requested and the controller hasn't already
// fired or been cancelled (spec.md §4.5, §7 — recoverable 4xx errors
// reset the deadline so the user gets the full window to correct and
// resubmit).
func (c *Controller) Reset() {
	if !c.resetOnError {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Load() != StateArmed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.duration, c.fire)
}

// Cancel stops the pending timer and transitions to Cancelled unless the
// deadline has already fired. Further Reset calls become no-ops once
// Cancelled.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.state.CompareAndSwap(StateArmed, StateCancelled)
}

// State returns the controller's terminal state, or StateArmed before
// either Fire or Cancel has taken effect.
func (c *Controller) State() int32 {
	return c.state.Load()
}

// fire runs on the timer's own goroutine. The CompareAndSwap ensures
// onFire runs at most once even if Cancel races with a timer that has
// already queued its callback.
func (c *Controller) fire() {
	if !c.state.CompareAndSwap(StateArmed, StateFired) {
		return
	}
	c.onFire()
}
