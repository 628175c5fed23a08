package combat

import (
	"sort"
	"sync"
	"time"
)

// TargetKind identifies what kind of entity an attack is aimed at.
type TargetKind string

const (
	TargetBlockade TargetKind = "blockade"
	TargetHomeBase TargetKind = "homebase"
)

// Attacker is the coordinator's view of an attacking entity. The
// coordinator never mutates attackers; it only reads their combat stats.
type Attacker interface {
	AttackerID() string
	Attacking() bool
	SwingInterval() time.Duration
	SwingDamage() float64
}

// Resolver supplies entity lookups during tick resolution. The entity
// registry implements it.
type Resolver interface {
	Attacker(id string) (Attacker, bool)
	TargetAlive(kind TargetKind, id string) bool
}

// AttackState tracks one zombie's active attack. An entry exists if and
// only if the zombie exists and is in the attacking state; every mutation
// path that breaks that condition must clear the entry.
type AttackState struct {
	TargetID          string
	TargetKind        TargetKind
	CooldownRemaining time.Duration

	// LastAttackAt is simulation time (accumulated elapsed), not wall
	// clock, so resolution replays deterministically.
	LastAttackAt time.Duration
}

// DamageEvent describes damage for the caller to apply. The coordinator
// itself never touches entity health.
type DamageEvent struct {
	AttackerID string
	TargetID   string
	TargetKind TargetKind
	Amount     float64
}

// Coordinator tracks attack state for every actively-attacking zombie and
// resolves cooldowns each tick.
type Coordinator struct {
	mu     sync.Mutex
	clock  time.Duration
	states map[string]*AttackState
}

// NewCoordinator creates an empty Coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		states: make(map[string]*AttackState),
	}
}

// BeginAttack registers an attack for the given attacker. A new entry
// starts with a zero cooldown so the first swing lands on the next tick.
// Calling it again with the same target is a no-op; a different target
// retargets the entry but keeps the running cooldown, so switching targets
// never grants a free hit.
func (c *Coordinator) BeginAttack(attackerID, targetID string, kind TargetKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st, ok := c.states[attackerID]; ok {
		if st.TargetID != targetID || st.TargetKind != kind {
			st.TargetID = targetID
			st.TargetKind = kind
		}
		return
	}

	c.states[attackerID] = &AttackState{
		TargetID:   targetID,
		TargetKind: kind,
	}
}

// ClearAttackState removes the entry for the given attacker. It is a true
// no-op when no entry exists; removal can race with natural expiry or
// defeat discovered in the same tick.
func (c *Coordinator) ClearAttackState(attackerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, attackerID)
}

// ClearTargeting removes every entry aimed at the given target and
// returns the attacker ids it cleared, ascending. Used by the caller when
// a target is destroyed so stale attackers stop swinging. An empty
// targetID matches every target of the kind; the home base is a singleton
// and is always addressed that way.
func (c *Coordinator) ClearTargeting(kind TargetKind, targetID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var cleared []string
	for id, st := range c.states {
		if st.TargetKind == kind && (targetID == "" || st.TargetID == targetID) {
			delete(c.states, id)
			cleared = append(cleared, id)
		}
	}
	sort.Strings(cleared)
	return cleared
}

// Reset unconditionally clears all attack state and the simulation clock.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states = make(map[string]*AttackState)
	c.clock = 0
}

// AttackStateFor returns a copy of the entry for the given attacker.
func (c *Coordinator) AttackStateFor(attackerID string) (AttackState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.states[attackerID]
	if !ok {
		return AttackState{}, false
	}
	return *st, true
}

// ActiveIDs returns the attacker ids with an attack state, ascending.
func (c *Coordinator) ActiveIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.states))
	for id := range c.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of tracked attack states.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.states)
}

// ResolveTick advances every cooldown by elapsed and returns the damage
// events that fired, in ascending attacker-id order so outcomes are
// reproducible. Entries whose attacker is gone, no longer attacking, or
// whose target is dead are dropped. A non-positive elapsed is a strict
// no-op: no cooldown moves and nothing fires.
func (c *Coordinator) ResolveTick(elapsed time.Duration, world Resolver) []DamageEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elapsed <= 0 {
		return nil
	}

	// The clock accumulates every positive tick, states or not, so
	// LastAttackAt stays aligned with the caller's simulation time.
	c.clock += elapsed

	if len(c.states) == 0 {
		return nil
	}

	// Snapshot keys for safe removal during iteration.
	ids := make([]string, 0, len(c.states))
	for id := range c.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var events []DamageEvent
	for _, id := range ids {
		st := c.states[id]

		attacker, ok := world.Attacker(id)
		if !ok || !attacker.Attacking() {
			delete(c.states, id)
			continue
		}
		if !world.TargetAlive(st.TargetKind, st.TargetID) {
			delete(c.states, id)
			continue
		}

		st.CooldownRemaining -= elapsed
		if st.CooldownRemaining > 0 {
			continue
		}

		events = append(events, DamageEvent{
			AttackerID: id,
			TargetID:   st.TargetID,
			TargetKind: st.TargetKind,
			Amount:     attacker.SwingDamage(),
		})
		st.CooldownRemaining = attacker.SwingInterval()
		st.LastAttackAt = c.clock
	}

	return events
}
