package sim

import (
	"sync"
	"time"
)

// LoopController holds the running flag and last-tick timestamp for the
// simulation loop. It is pure state: it never schedules anything, the
// external driver does.
type LoopController struct {
	mu         sync.Mutex
	active     bool
	lastUpdate time.Time
}

// NewLoopController creates a stopped controller.
func NewLoopController() *LoopController {
	return &LoopController{}
}

// Start marks the loop running. Starting an already-running loop is a
// no-op and does not touch the last-update timestamp.
func (l *LoopController) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = true
}

// Stop marks the loop stopped. Stopping an already-stopped loop is a
// no-op. It only prevents future ticks; an in-flight tick runs to
// completion.
func (l *LoopController) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = false
}

// IsActive reports whether the loop is running.
func (l *LoopController) IsActive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// LastUpdate returns the timestamp of the last processed tick, zero before
// the first tick.
func (l *LoopController) LastUpdate() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastUpdate
}

// Elapsed returns the duration since the last processed tick, used as the
// per-tick elapsed time. It is zero when the loop is stopped, before the
// first tick, and for non-monotonic clocks.
func (l *LoopController) Elapsed(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.active || l.lastUpdate.IsZero() {
		return 0
	}
	d := now.Sub(l.lastUpdate)
	if d < 0 {
		return 0
	}
	return d
}

// MarkTick records the given time as the last processed tick.
func (l *LoopController) MarkTick(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastUpdate = now
}

// Reset returns the controller to its initial stopped state with a zero
// last-update timestamp.
func (l *LoopController) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = false
	l.lastUpdate = time.Time{}
}
