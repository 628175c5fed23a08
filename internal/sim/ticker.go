package sim

import (
	"context"
	"time"
)

// Ticker adapts a State to the driver's Manager interface, feeding it
// wall-clock time once per scheduling quantum.
type Ticker struct {
	state *State
	now   func() time.Time
}

// NewTicker creates a Ticker driving the given state.
func NewTicker(state *State) *Ticker {
	return &Ticker{
		state: state,
		now:   time.Now,
	}
}

// Tick runs one simulation step. Called every tick by the driver.
func (t *Ticker) Tick(ctx context.Context) error {
	t.state.Tick(t.now())
	return nil
}
