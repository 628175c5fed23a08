package sim

import (
	"time"

	"github.com/pixil98/go-horde/internal/combat"
)

// Snapshot is the read model exposed to the rendering layer. Everything in
// it is a copy; mutating a snapshot never touches simulation state.
type Snapshot struct {
	Clock      time.Duration `json:"clock"`
	Active     bool          `json:"active"`
	LastUpdate time.Time     `json:"last_update"`
	HomeBase   HomeBase      `json:"home_base"`
	Zombies    []Zombie      `json:"zombies"`
	Blockades  []Blockade    `json:"blockades"`
	Particles  []Particle    `json:"particles"`
}

// Snapshot returns a consistent copy of the full simulation state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Clock:      s.clock,
		Active:     s.loop.IsActive(),
		LastUpdate: s.loop.LastUpdate(),
		HomeBase:   s.registry.HomeBase(),
		Zombies:    s.registry.Zombies(),
		Blockades:  s.registry.Blockades(),
		Particles:  s.particles.Particles(),
	}
}

// Zombies returns copies of all zombies in ascending id order.
func (s *State) Zombies() []Zombie { return s.registry.Zombies() }

// ActiveZombies returns zombies in the moving or attacking state.
func (s *State) ActiveZombies() []Zombie { return s.registry.ActiveZombies() }

// DefeatedZombies returns zombies in the defeated state.
func (s *State) DefeatedZombies() []Zombie { return s.registry.DefeatedZombies() }

// Zombie returns a copy of the zombie with the given id.
func (s *State) Zombie(id string) (Zombie, bool) { return s.registry.Zombie(id) }

// Blockades returns copies of all blockades in ascending id order.
func (s *State) Blockades() []Blockade { return s.registry.Blockades() }

// Blockade returns a copy of the blockade with the given id.
func (s *State) Blockade(id string) (Blockade, bool) { return s.registry.Blockade(id) }

// HomeBase returns the current home base value.
func (s *State) HomeBase() HomeBase { return s.registry.HomeBase() }

// Particles returns a copy of the particle ledger in insertion order.
func (s *State) Particles() []Particle { return s.particles.Particles() }

// IsActive reports whether the simulation loop is running.
func (s *State) IsActive() bool { return s.loop.IsActive() }

// LastUpdate returns the timestamp of the last processed tick.
func (s *State) LastUpdate() time.Time { return s.loop.LastUpdate() }

// Clock returns the accumulated simulation time.
func (s *State) Clock() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// AttackStateFor returns a copy of the zombie's attack state.
func (s *State) AttackStateFor(id string) (combat.AttackState, bool) {
	return s.combat.AttackStateFor(id)
}

// AttackingIDs returns the zombie ids with an attack state, ascending.
func (s *State) AttackingIDs() []string { return s.combat.ActiveIDs() }
