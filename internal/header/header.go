// Package header models the navigation panel: an open/closed state machine and a
// controller that defers link navigation until the close animation finishes.
package header

import (
	"strings"
	"sync"
	"time"
)

// CloseDuration is how long the panel takes to collapse.
const CloseDuration = 300 * time.Millisecond

// State is the panel state.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// ParseState reads "open"; anything else is Closed.
func ParseState(v string) State {
	if strings.EqualFold(strings.TrimSpace(v), "open") {
		return Open
	}
	return Closed
}

// Event is a user interaction with the panel.
type Event int

const (
	Toggle Event = iota
	Escape
	OverlayClick
	LinkClick
)

// ParseEvent maps the wire names used by the menu fragment.
func ParseEvent(v string) (Event, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "toggle":
		return Toggle, true
	case "escape":
		return Escape, true
	case "overlay":
		return OverlayClick, true
	case "link":
		return LinkClick, true
	}
	return 0, false
}

// Next is the transition function. Escape and overlay clicks only act on an open
// panel; a link click always leaves it closed.
func (s State) Next(e Event) State {
	switch e {
	case Toggle:
		if s == Open {
			return Closed
		}
		return Open
	case Escape, OverlayClick, LinkClick:
		return Closed
	}
	return s
}

// Navigator performs the actual route change.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Timer is a pending one-shot callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clock struct{}

func (clock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.sched = s
		}
	}
}

// WithState sets the initial state (default Closed).
func WithState(s State) Option {
	return func(c *Controller) { c.state = s }
}

// Controller owns the panel state and at most one pending navigation.
// Timer callbacks run on their own goroutine, so state is guarded.
type Controller struct {
	nav   Navigator
	sched Scheduler

	mu      sync.Mutex
	state   State
	pending Timer
	seq     uint64
	closed  bool
}

// NewController returns a closed panel that navigates through nav.
func NewController(nav Navigator, opts ...Option) *Controller {
	c := &Controller{nav: nav, sched: clock{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports the current panel state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Handle applies a non-link event and returns the new state.
func (c *Controller) Handle(e Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.state
	}
	c.state = c.state.Next(e)
	return c.state
}

// ClickLink closes the panel and navigates to path. When the panel was open the
// navigation waits CloseDuration; the returned delay is zero otherwise.
// A click supersedes any navigation still pending from an earlier click.
func (c *Controller) ClickLink(path string) time.Duration {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0
	}
	wasOpen := c.state == Open
	c.state = c.state.Next(LinkClick)
	c.stopPendingLocked()

	if !wasOpen {
		c.mu.Unlock()
		c.nav.Navigate(path)
		return 0
	}

	c.seq++
	seq := c.seq
	c.pending = c.sched.AfterFunc(CloseDuration, func() { c.fire(seq, path) })
	c.mu.Unlock()
	return CloseDuration
}

func (c *Controller) fire(seq uint64, path string) {
	c.mu.Lock()
	if c.closed || seq != c.seq || c.pending == nil {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.mu.Unlock()
	c.nav.Navigate(path)
}

// Pending reports whether a deferred navigation is scheduled.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Close cancels any pending navigation. Events after Close are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopPendingLocked()
}

func (c *Controller) stopPendingLocked() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.seq++
}
