// Package clock provides the monotone integer cycle counter shared,
// read-only, by every ticking component.
package clock

import "github.com/ehrlich-b/go-oocsim/internal/constants"

// Clock is a simple cycle counter. Only the driver advances it; every
// other component only reads Now().
type Clock struct {
	current constants.Cycle
}

// New returns a Clock starting at cycle 0.
func New() *Clock {
	return &Clock{}
}

// Now returns the current cycle.
func (c *Clock) Now() constants.Cycle {
	return c.current
}

// Advance moves the clock forward by one cycle.
func (c *Clock) Advance() {
	c.current++
}
