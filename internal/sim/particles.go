package sim

import (
	"sync"
	"time"
)

// Particle is an ephemeral visual-effect record spawned by combat events.
// It carries no reference back to the entity that spawned it; the core
// only tracks the data, drawing belongs to the rendering layer.
type Particle struct {
	Kind      string        `json:"kind"`
	Position  Vec3          `json:"position"`
	SpawnedAt time.Duration `json:"spawned_at"`
	Lifetime  time.Duration `json:"lifetime"`
}

// Expired reports whether the particle's lifetime has elapsed at the given
// simulation time.
func (p Particle) Expired(now time.Duration) bool {
	return p.Lifetime > 0 && now >= p.SpawnedAt+p.Lifetime
}

// ParticleLedger is pure bookkeeping for particle records. Insertion order
// is preserved so test replays are deterministic. The ledger never expires
// records on its own; that is the tick orchestration's job.
type ParticleLedger struct {
	mu        sync.RWMutex
	particles []Particle
}

// NewParticleLedger creates an empty ledger.
func NewParticleLedger() *ParticleLedger {
	return &ParticleLedger{}
}

// Add appends the given particles in order.
func (l *ParticleLedger) Add(particles ...Particle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.particles = append(l.particles, particles...)
}

// Set replaces the ledger contents.
func (l *ParticleLedger) Set(particles []Particle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.particles = append([]Particle(nil), particles...)
}

// Clear removes every particle.
func (l *ParticleLedger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.particles = nil
}

// Particles returns a copy of the ledger in insertion order.
func (l *ParticleLedger) Particles() []Particle {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Particle(nil), l.particles...)
}

// Len returns the number of stored particles.
func (l *ParticleLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.particles)
}

// DropExpired removes particles whose lifetime has elapsed at the given
// simulation time and returns how many were dropped.
func (l *ParticleLedger) DropExpired(now time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.particles[:0]
	for _, p := range l.particles {
		if !p.Expired(now) {
			kept = append(kept, p)
		}
	}
	dropped := len(l.particles) - len(kept)
	l.particles = kept
	return dropped
}
