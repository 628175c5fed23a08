package sim

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pixil98/go-horde/internal/combat"
)

// Registry owns the authoritative zombie and blockade collections and the
// single home base. It is pure storage: cross-store cascades (clearing
// combat state when a zombie goes away) live on State, which treats the
// paired calls as one logical operation.
type Registry struct {
	mu        sync.RWMutex
	zombies   map[string]*Zombie
	blockades map[string]*Blockade
	base      HomeBase
}

// NewRegistry creates a registry holding the given home base. The base
// health is clamped into [0, MaxHealth] and defaults to the safe state.
func NewRegistry(base HomeBase) *Registry {
	if base.State == "" {
		base.State = HomeBaseSafe
	}
	base.Health = clampHealth(base.Health, base.MaxHealth)

	return &Registry{
		zombies:   make(map[string]*Zombie),
		blockades: make(map[string]*Blockade),
		base:      base,
	}
}

func clampHealth(health, max float64) float64 {
	if health < 0 {
		return 0
	}
	if max > 0 && health > max {
		return max
	}
	return health
}

// AddZombie registers a new zombie. The registry stores its own copy.
func (r *Registry) AddZombie(z Zombie) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.zombies[z.ID]; exists {
		return fmt.Errorf("zombie %q: %w", z.ID, ErrDuplicateID)
	}
	if z.State == "" {
		z.State = ZombieIdle
	}
	z.Health = clampHealth(z.Health, z.MaxHealth)
	r.zombies[z.ID] = &z
	return nil
}

// RemoveZombie deletes the zombie with the given id. Missing ids are a
// no-op.
func (r *Registry) RemoveZombie(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.zombies, id)
}

// UpdateZombie merges the patch into the zombie with the given id. Missing
// ids are a no-op. Health is clamped into [0, MaxHealth].
func (r *Registry) UpdateZombie(id string, patch ZombiePatch) {
	r.mu.Lock()
	defer r.mu.Unlock()

	z, ok := r.zombies[id]
	if !ok {
		return
	}
	if patch.Position != nil {
		z.Position = *patch.Position
	}
	if patch.Health != nil {
		z.Health = clampHealth(*patch.Health, z.MaxHealth)
	}
	if patch.State != nil {
		z.State = *patch.State
	}
}

// SetZombies replaces the zombie collection. The list must not contain
// duplicate ids; on error the existing collection is left untouched.
func (r *Registry) SetZombies(zombies []Zombie) error {
	next := make(map[string]*Zombie, len(zombies))
	for _, z := range zombies {
		if _, exists := next[z.ID]; exists {
			return fmt.Errorf("zombie %q: %w", z.ID, ErrDuplicateID)
		}
		if z.State == "" {
			z.State = ZombieIdle
		}
		z.Health = clampHealth(z.Health, z.MaxHealth)
		zc := z
		next[z.ID] = &zc
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.zombies = next
	return nil
}

// ClearZombies removes every zombie.
func (r *Registry) ClearZombies() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.zombies = make(map[string]*Zombie)
}

// Zombie returns a copy of the zombie with the given id.
func (r *Registry) Zombie(id string) (Zombie, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	z, ok := r.zombies[id]
	if !ok {
		return Zombie{}, false
	}
	return *z, true
}

// Zombies returns copies of all zombies in ascending id order.
func (r *Registry) Zombies() []Zombie {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Zombie, 0, len(r.zombies))
	for _, z := range r.zombies {
		out = append(out, *z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ZombieIDs returns all zombie ids in ascending order.
func (r *Registry) ZombieIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.zombies))
	for id := range r.zombies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ActiveZombies returns zombies in the moving or attacking state. This is
// a derived view, never stored.
func (r *Registry) ActiveZombies() []Zombie {
	return r.filterZombies(func(z *Zombie) bool { return z.Active() })
}

// DefeatedZombies returns zombies in the defeated state.
func (r *Registry) DefeatedZombies() []Zombie {
	return r.filterZombies(func(z *Zombie) bool { return z.State == ZombieDefeated })
}

func (r *Registry) filterZombies(keep func(*Zombie) bool) []Zombie {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Zombie
	for _, z := range r.zombies {
		if keep(z) {
			out = append(out, *z)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddBlockade registers a new blockade. The registry stores its own copy.
func (r *Registry) AddBlockade(b Blockade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.blockades[b.ID]; exists {
		return fmt.Errorf("blockade %q: %w", b.ID, ErrDuplicateID)
	}
	if b.State == "" {
		b.State = BlockadeIntact
	}
	b.Health = clampHealth(b.Health, b.MaxHealth)
	r.blockades[b.ID] = &b
	return nil
}

// RemoveBlockade deletes the blockade with the given id. Missing ids are a
// no-op.
func (r *Registry) RemoveBlockade(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blockades, id)
}

// UpdateBlockade merges the patch into the blockade with the given id.
// Missing ids are a no-op. Health is clamped into [0, MaxHealth].
func (r *Registry) UpdateBlockade(id string, patch BlockadePatch) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.blockades[id]
	if !ok {
		return
	}
	if patch.Position != nil {
		b.Position = *patch.Position
	}
	if patch.Health != nil {
		b.Health = clampHealth(*patch.Health, b.MaxHealth)
	}
	if patch.State != nil {
		b.State = *patch.State
	}
}

// SetBlockades replaces the blockade collection. The list must not contain
// duplicate ids; on error the existing collection is left untouched.
func (r *Registry) SetBlockades(blockades []Blockade) error {
	next := make(map[string]*Blockade, len(blockades))
	for _, b := range blockades {
		if _, exists := next[b.ID]; exists {
			return fmt.Errorf("blockade %q: %w", b.ID, ErrDuplicateID)
		}
		if b.State == "" {
			b.State = BlockadeIntact
		}
		b.Health = clampHealth(b.Health, b.MaxHealth)
		bc := b
		next[b.ID] = &bc
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.blockades = next
	return nil
}

// ClearBlockades removes every blockade.
func (r *Registry) ClearBlockades() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blockades = make(map[string]*Blockade)
}

// Blockade returns a copy of the blockade with the given id.
func (r *Registry) Blockade(id string) (Blockade, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.blockades[id]
	if !ok {
		return Blockade{}, false
	}
	return *b, true
}

// Blockades returns copies of all blockades in ascending id order.
func (r *Registry) Blockades() []Blockade {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Blockade, 0, len(r.blockades))
	for _, b := range r.blockades {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HomeBase returns the current home base value.
func (r *Registry) HomeBase() HomeBase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.base
}

// SetHomeBase replaces the home base value. Health is clamped into
// [0, MaxHealth] and an empty state defaults to safe.
func (r *Registry) SetHomeBase(base HomeBase) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if base.State == "" {
		base.State = HomeBaseSafe
	}
	base.Health = clampHealth(base.Health, base.MaxHealth)
	r.base = base
}

// Attacker implements combat.Resolver.
func (r *Registry) Attacker(id string) (combat.Attacker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	z, ok := r.zombies[id]
	if !ok {
		return nil, false
	}
	return z, true
}

// TargetAlive implements combat.Resolver. A blockade is alive while
// intact; the home base is alive until breached.
func (r *Registry) TargetAlive(kind combat.TargetKind, id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch kind {
	case combat.TargetBlockade:
		b, ok := r.blockades[id]
		return ok && b.Alive()
	case combat.TargetHomeBase:
		return r.base.State != HomeBaseBreached
	default:
		return false
	}
}
