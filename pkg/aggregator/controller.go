package aggregator

import (
	"context"
	"sync"

	"github.com/goliatone/go-catalogform/pkg/plugin"
)

// Controller publishes the state of the most recent pass. Every Update starts
// a new epoch and marks the state not ready until that epoch finishes; passes
// that finish after a newer Update are discarded.
type Controller struct {
	agg *Aggregator

	mu     sync.Mutex
	epoch  uint64
	state  *State
	err    error
	done   chan struct{}
	cancel context.CancelFunc
}

// NewController returns a controller running passes on agg. A nil agg uses
// New().
func NewController(agg *Aggregator) *Controller {
	if agg == nil {
		agg = New()
	}
	done := make(chan struct{})
	close(done)
	return &Controller{
		agg:   agg,
		state: &State{},
		done:  done,
	}
}

// Update starts a pass for specs and data and returns its epoch. The previous
// in-flight pass, if any, is cancelled and its result will be dropped.
func (c *Controller) Update(ctx context.Context, specs []plugin.Spec, data any) uint64 {
	passCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.epoch++
	epoch := c.epoch
	c.state = &State{Epoch: epoch}
	c.err = nil
	// wake waiters parked on the superseded pass so they move to this one
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.done = make(chan struct{})
	c.cancel = cancel
	c.mu.Unlock()

	go c.run(passCtx, cancel, epoch, specs, data)
	return epoch
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, epoch uint64, specs []plugin.Spec, data any) {
	defer cancel()
	state, err := c.agg.Compose(ctx, specs, data)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		c.agg.metrics.ObserveStale()
		c.agg.logger.Debug().
			Uint64("epoch", epoch).
			Uint64("current_epoch", c.epoch).
			Msg("stale composition pass discarded")
		return
	}
	if err == nil {
		state.Epoch = epoch
		c.state = state
	}
	c.err = err
	c.cancel = nil
	close(c.done)
}

// State returns the current snapshot. It is never nil.
func (c *Controller) State() *State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error of the latest finished pass.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Epoch returns the epoch of the latest Update.
func (c *Controller) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Wait blocks until the newest epoch has published and returns its state and
// error. An Update issued while waiting extends the wait to the new epoch.
func (c *Controller) Wait(ctx context.Context) (*State, error) {
	for {
		c.mu.Lock()
		done := c.done
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
		}

		c.mu.Lock()
		if c.done == done {
			state, err := c.state, c.err
			c.mu.Unlock()
			return state, err
		}
		c.mu.Unlock()
	}
}

// Close cancels the in-flight pass, if any.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
