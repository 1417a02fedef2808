package screen

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrBusy         = errors.New("Another change is still in progress")
	ErrNotConfirmed = errors.New("Deletion was not confirmed")
)

// Gate admits one mutation at a time.
type Gate struct {
	busy atomic.Bool
}

func (g *Gate) Busy() bool { return g.busy.Load() }

// Run calls fn unless another call is in flight, in which case it returns
// ErrBusy without calling fn.
func (g *Gate) Run(fn func() error) error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer g.busy.Store(false)
	return fn()
}

// Outcome is the result of a mutation: where to go next on success, or the
// inline message on failure. A failed Outcome never redirects.
type Outcome struct {
	Redirect string
	Message  string
	Err      error
}

func (o Outcome) OK() bool { return o.Err == nil }

func succeeded(redirect string) Outcome {
	return Outcome{Redirect: redirect}
}

func failed(err error, fallback string) Outcome {
	return Outcome{Err: err, Message: Message(err, fallback)}
}

// Continuation replaces the canonical redirect after a successful form
// submission; it returns where to go instead.
type Continuation[T any] func(result T) string

// Confirmation is the "are you sure" step in front of a delete. Only a
// target that was requested and not cancelled can be confirmed.
type Confirmation struct {
	mu      sync.Mutex
	pending string
}

func (c *Confirmation) Request(target string) {
	c.mu.Lock()
	c.pending = target
	c.mu.Unlock()
}

func (c *Confirmation) Cancel() {
	c.mu.Lock()
	c.pending = ""
	c.mu.Unlock()
}

func (c *Confirmation) Pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Confirm runs fn for target if target is the pending request. The request
// is consumed whatever fn returns.
func (c *Confirmation) Confirm(target string, fn func() error) error {
	c.mu.Lock()
	if target == "" || c.pending != target {
		c.mu.Unlock()
		return ErrNotConfirmed
	}
	c.pending = ""
	c.mu.Unlock()
	return fn()
}
