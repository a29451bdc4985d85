// Package search implements the engine's move search: quiescence, principal-variation
// alpha-beta with iterative deepening, a transposition table, move ordering and an optional
// root-split parallel search.
package search

import (
	"time"

	"go.uber.org/atomic"
)

// Control is the shared, cooperative cancellation signal threaded through every node of a
// search: a stop flag the UCI adapter can set directly, and a deadline the search polls. Both
// are checked at every node entry; polling granularity coarser than a few thousand nodes would
// violate the search's responsiveness contract, so Control.Stopped is cheap by design (two
// atomic/monotonic reads, no syscalls).
type Control struct {
	stop     atomic.Bool
	deadline time.Time
	maxNodes uint64
	nodes    atomic.Uint64
}

// NewControl returns a Control with the given deadline. A zero deadline means "no deadline".
func NewControl(deadline time.Time) *Control {
	return &Control{deadline: deadline}
}

// WithNodeLimit sets a node budget: Stopped reports true once Nodes reaches it. A limit of 0
// (the default) leaves the search unbounded by node count.
func (c *Control) WithNodeLimit(limit uint64) *Control {
	c.maxNodes = limit
	return c
}

// Stop requests that the search halt as soon as convenient.
func (c *Control) Stop() {
	c.stop.Store(true)
}

// Stopped reports whether the search should halt: the stop flag was set, the deadline (if any)
// has passed, or the node budget (if any) was reached.
func (c *Control) Stopped() bool {
	if c.stop.Load() {
		return true
	}
	if !c.deadline.IsZero() && !time.Now().Before(c.deadline) {
		return true
	}
	return c.maxNodes > 0 && c.nodes.Load() >= c.maxNodes
}

// CountNode records one more node visited and returns the running total.
func (c *Control) CountNode() uint64 {
	return c.nodes.Inc()
}

// Nodes returns the number of nodes visited so far.
func (c *Control) Nodes() uint64 {
	return c.nodes.Load()
}
