package sim

import (
	"sync"
	"time"

	"github.com/pixil98/go-horde/internal/combat"
)

// Particle kinds spawned by tick processing.
const (
	ParticleImpact = "impact"
	ParticleDebris = "debris"
	ParticleBreach = "breach"
)

// How long combat particles stay in the ledger before the tick prunes them.
const (
	impactLifetime = 1200 * time.Millisecond
	debrisLifetime = 3 * time.Second
)

// EventSink receives simulation events produced by tick processing. All
// methods are called after the tick has fully applied, so a sink observing
// state sees a consistent world. A nil sink is allowed.
type EventSink interface {
	DamageDealt(ev combat.DamageEvent)
	BlockadeDestroyed(id string)
	HomeBaseBreached()
}

// Report summarizes what one tick did.
type Report struct {
	Damage    []combat.DamageEvent
	Destroyed []string
	Breached  bool
}

// State is the explicit simulation-state aggregate: the entity registry,
// combat coordinator, particle ledger, and loop controller, plus the
// simulation clock. There is no hidden global; the orchestration layer
// owns a State and passes it where needed, and tests construct a fresh one
// per case.
//
// All mutation goes through State methods so that cross-store invariants
// hold after every operation: an attack-state entry exists only while the
// corresponding zombie exists and is attacking.
type State struct {
	mu        sync.Mutex
	registry  *Registry
	combat    *combat.Coordinator
	particles *ParticleLedger
	loop      *LoopController
	clock     time.Duration

	initialBase HomeBase
	sink        EventSink
}

// NewState creates a stopped simulation holding the given home base.
func NewState(base HomeBase) *State {
	return &State{
		registry:    NewRegistry(base),
		combat:      combat.NewCoordinator(),
		particles:   NewParticleLedger(),
		loop:        NewLoopController(),
		initialBase: base,
	}
}

// SetEventSink installs the sink notified after each tick.
func (s *State) SetEventSink(sink EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// AddZombie registers a new zombie.
func (s *State) AddZombie(z Zombie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.AddZombie(z)
}

// RemoveZombie removes the zombie and clears its attack state as one
// logical operation. The ordering is an invariant: skipping the combat
// cleanup would leave a dangling attack state referencing a nonexistent
// zombie. Missing ids are a no-op.
func (s *State) RemoveZombie(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.RemoveZombie(id)
	s.combat.ClearAttackState(id)
}

// UpdateZombie merges the patch into the zombie. A zombie patched to zero
// health transitions to defeated, and any patch that leaves the attacking
// state clears the combat entry.
func (s *State) UpdateZombie(id string, patch ZombiePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry.UpdateZombie(id, patch)

	z, ok := s.registry.Zombie(id)
	if !ok {
		return
	}
	if z.Health <= 0 && z.State != ZombieDefeated {
		defeated := ZombieDefeated
		s.registry.UpdateZombie(id, ZombiePatch{State: &defeated})
		z.State = defeated
	}
	if z.State != ZombieAttacking {
		s.combat.ClearAttackState(id)
	}
}

// SetZombies replaces the zombie collection and drops attack states whose
// zombie is gone or no longer attacking.
func (s *State) SetZombies(zombies []Zombie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.SetZombies(zombies); err != nil {
		return err
	}
	s.pruneAttackStates()
	return nil
}

// ClearZombies removes every zombie, clearing each one's attack state
// first.
func (s *State) ClearZombies() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.registry.ZombieIDs() {
		s.combat.ClearAttackState(id)
	}
	s.registry.ClearZombies()
}

// pruneAttackStates drops combat entries whose zombie no longer exists or
// is no longer attacking.
func (s *State) pruneAttackStates() {
	for _, id := range s.combat.ActiveIDs() {
		z, ok := s.registry.Zombie(id)
		if !ok || z.State != ZombieAttacking {
			s.combat.ClearAttackState(id)
		}
	}
}

// AddBlockade registers a new blockade.
func (s *State) AddBlockade(b Blockade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.AddBlockade(b)
}

// RemoveBlockade removes the blockade and clears every attack state aimed
// at it; those zombies go back to moving and retarget on the next tick.
func (s *State) RemoveBlockade(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.RemoveBlockade(id)
	s.releaseAttackers(combat.TargetBlockade, id)
}

// UpdateBlockade merges the patch into the blockade. A blockade patched to
// zero health is destroyed with the same cascade as combat damage.
func (s *State) UpdateBlockade(id string, patch BlockadePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry.UpdateBlockade(id, patch)

	b, ok := s.registry.Blockade(id)
	if ok && !b.Alive() {
		s.destroyBlockade(id)
	}
}

// SetBlockades replaces the blockade collection and releases attackers of
// blockades that are gone or destroyed.
func (s *State) SetBlockades(blockades []Blockade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.SetBlockades(blockades); err != nil {
		return err
	}
	for _, id := range s.combat.ActiveIDs() {
		st, ok := s.combat.AttackStateFor(id)
		if !ok || st.TargetKind != combat.TargetBlockade {
			continue
		}
		if b, exists := s.registry.Blockade(st.TargetID); !exists || !b.Alive() {
			s.combat.ClearAttackState(id)
			s.releaseZombie(id)
		}
	}
	return nil
}

// ClearBlockades removes every blockade, releasing all their attackers.
func (s *State) ClearBlockades() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.registry.Blockades() {
		s.releaseAttackers(combat.TargetBlockade, b.ID)
	}
	s.registry.ClearBlockades()
}

// SetHomeBase replaces the home base. Replacing it with a breached base
// releases everything attacking it.
func (s *State) SetHomeBase(base HomeBase) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry.SetHomeBase(base)
	if base.State == HomeBaseBreached {
		s.releaseAttackers(combat.TargetHomeBase, "")
	}
}

// releaseAttackers clears every attack state aimed at the target and
// reverts those zombies to moving.
func (s *State) releaseAttackers(kind combat.TargetKind, targetID string) {
	for _, id := range s.combat.ClearTargeting(kind, targetID) {
		s.releaseZombie(id)
	}
}

// releaseZombie puts an attacking zombie back into the moving state.
func (s *State) releaseZombie(id string) {
	z, ok := s.registry.Zombie(id)
	if !ok || z.State != ZombieAttacking {
		return
	}
	moving := ZombieMoving
	s.registry.UpdateZombie(id, ZombiePatch{State: &moving})
}

// BeginAttack puts the zombie into the attacking state and registers an
// attack on the target. It is a no-op when the zombie is missing or
// defeated, or when the target is not alive.
func (s *State) BeginAttack(zombieID, targetID string, kind combat.TargetKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginAttack(zombieID, targetID, kind)
}

func (s *State) beginAttack(zombieID, targetID string, kind combat.TargetKind) {
	z, ok := s.registry.Zombie(zombieID)
	if !ok || z.State == ZombieDefeated {
		return
	}
	if !s.registry.TargetAlive(kind, targetID) {
		return
	}

	if z.State != ZombieAttacking {
		attacking := ZombieAttacking
		s.registry.UpdateZombie(zombieID, ZombiePatch{State: &attacking})
	}
	s.combat.BeginAttack(zombieID, targetID, kind)
}

// ClearAttackState clears the zombie's attack state and reverts it to
// moving. A true no-op when no entry exists.
func (s *State) ClearAttackState(zombieID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.combat.AttackStateFor(zombieID); !ok {
		return
	}
	s.combat.ClearAttackState(zombieID)
	s.releaseZombie(zombieID)
}

// AddParticles appends particle records.
func (s *State) AddParticles(particles ...Particle) {
	s.particles.Add(particles...)
}

// SetParticles replaces the particle ledger contents.
func (s *State) SetParticles(particles []Particle) {
	s.particles.Set(particles)
}

// ClearParticles removes every particle.
func (s *State) ClearParticles() {
	s.particles.Clear()
}

// Start marks the loop running; idempotent.
func (s *State) Start() { s.loop.Start() }

// Stop marks the loop stopped; idempotent. It only prevents future ticks.
func (s *State) Stop() { s.loop.Stop() }

// Reset drives the registry, coordinator, ledger, and loop controller back
// to their initial values in one call. The home base is restored to the
// value the State was created with.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry.ClearZombies()
	s.registry.ClearBlockades()
	s.registry.SetHomeBase(s.initialBase)
	s.combat.Reset()
	s.particles.Clear()
	s.loop.Reset()
	s.clock = 0
}

// Tick runs one simulation step at the given wall-clock time. It is a
// no-op while the loop is stopped. Elapsed time is computed from the loop
// controller's last-update timestamp, which is advanced once the step has
// applied.
func (s *State) Tick(now time.Time) Report {
	s.mu.Lock()

	if !s.loop.IsActive() {
		s.mu.Unlock()
		return Report{}
	}

	elapsed := s.loop.Elapsed(now)
	report := s.advance(elapsed)
	s.loop.MarkTick(now)

	sink := s.sink
	s.mu.Unlock()

	notify(sink, report)
	return report
}

// Advance runs one simulation step with an explicit elapsed duration,
// bypassing the wall clock. Tests and replay tooling drive the simulation
// through it deterministically.
func (s *State) Advance(elapsed time.Duration) Report {
	s.mu.Lock()
	report := s.advance(elapsed)
	sink := s.sink
	s.mu.Unlock()

	notify(sink, report)
	return report
}

func notify(sink EventSink, report Report) {
	if sink == nil {
		return
	}
	for _, ev := range report.Damage {
		sink.DamageDealt(ev)
	}
	for _, id := range report.Destroyed {
		sink.BlockadeDestroyed(id)
	}
	if report.Breached {
		sink.HomeBaseBreached()
	}
}

// advance is the tick body. Order is fixed: movement, combat resolution,
// damage application in ascending attacker-id order, home-base state
// derivation, particle expiry.
func (s *State) advance(elapsed time.Duration) Report {
	var report Report

	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > 0 {
		s.clock += elapsed
		s.moveZombies(elapsed)
	}

	report.Damage = s.combat.ResolveTick(elapsed, s.registry)
	for _, ev := range report.Damage {
		s.applyDamage(ev, &report)
	}

	s.deriveBaseState()
	s.particles.DropExpired(s.clock)

	return report
}

// moveZombies advances moving zombies toward the nearest intact blockade,
// or the home base when none remain, and begins an attack once in range.
// Attacking zombies that lost their combat entry fall back to moving.
func (s *State) moveZombies(elapsed time.Duration) {
	for _, z := range s.registry.Zombies() {
		if z.State == ZombieAttacking {
			if _, ok := s.combat.AttackStateFor(z.ID); !ok {
				s.releaseZombie(z.ID)
			}
			continue
		}
		if z.State != ZombieMoving {
			continue
		}

		targetID, targetKind, targetPos, ok := s.nearestTarget(z.Position)
		if !ok {
			idle := ZombieIdle
			s.registry.UpdateZombie(z.ID, ZombiePatch{State: &idle})
			continue
		}

		dist := z.Position.Distance(targetPos)
		if dist <= z.AttackRange {
			s.beginAttack(z.ID, targetID, targetKind)
			continue
		}

		step := z.Speed * elapsed.Seconds()
		if step > dist {
			step = dist
		}
		pos := z.Position.Add(targetPos.Sub(z.Position).Norm().Scale(step))
		s.registry.UpdateZombie(z.ID, ZombiePatch{Position: &pos})
	}
}

// nearestTarget picks the closest intact blockade, falling back to the
// home base while it stands.
func (s *State) nearestTarget(from Vec3) (string, combat.TargetKind, Vec3, bool) {
	var (
		bestID   string
		bestPos  Vec3
		bestDist float64
		found    bool
	)
	for _, b := range s.registry.Blockades() {
		if !b.Alive() {
			continue
		}
		d := from.Distance(b.Position)
		if !found || d < bestDist {
			bestID, bestPos, bestDist, found = b.ID, b.Position, d, true
		}
	}
	if found {
		return bestID, combat.TargetBlockade, bestPos, true
	}

	base := s.registry.HomeBase()
	if base.State == HomeBaseBreached {
		return "", "", Vec3{}, false
	}
	return "", combat.TargetHomeBase, base.Position, true
}

// applyDamage applies one damage event to its target and spawns the
// matching particle records.
func (s *State) applyDamage(ev combat.DamageEvent, report *Report) {
	switch ev.TargetKind {
	case combat.TargetBlockade:
		b, ok := s.registry.Blockade(ev.TargetID)
		if !ok || !b.Alive() {
			// Another attacker destroyed it earlier this tick.
			return
		}
		health := b.Health - ev.Amount
		s.registry.UpdateBlockade(ev.TargetID, BlockadePatch{Health: &health})
		s.particles.Add(Particle{
			Kind:      ParticleImpact,
			Position:  b.Position,
			SpawnedAt: s.clock,
			Lifetime:  impactLifetime,
		})
		if health <= 0 {
			s.destroyBlockade(ev.TargetID)
			report.Destroyed = append(report.Destroyed, ev.TargetID)
		}

	case combat.TargetHomeBase:
		base := s.registry.HomeBase()
		if base.State == HomeBaseBreached {
			return
		}
		base.Health = clampHealth(base.Health-ev.Amount, base.MaxHealth)
		s.particles.Add(Particle{
			Kind:      ParticleImpact,
			Position:  base.Position,
			SpawnedAt: s.clock,
			Lifetime:  impactLifetime,
		})
		if base.Health <= 0 {
			base.State = HomeBaseBreached
			report.Breached = true
			s.particles.Add(Particle{
				Kind:      ParticleBreach,
				Position:  base.Position,
				SpawnedAt: s.clock,
				Lifetime:  debrisLifetime,
			})
		}
		s.registry.SetHomeBase(base)
		if report.Breached {
			s.releaseAttackers(combat.TargetHomeBase, "")
			s.loop.Stop()
		}
	}
}

// destroyBlockade marks the blockade defeated, spawns debris, and releases
// its attackers back to moving so they retarget next tick.
func (s *State) destroyBlockade(id string) {
	b, ok := s.registry.Blockade(id)
	if !ok {
		return
	}
	defeated := BlockadeDefeated
	zero := 0.0
	s.registry.UpdateBlockade(id, BlockadePatch{Health: &zero, State: &defeated})
	s.particles.Add(Particle{
		Kind:      ParticleDebris,
		Position:  b.Position,
		SpawnedAt: s.clock,
		Lifetime:  debrisLifetime,
	})
	s.releaseAttackers(combat.TargetBlockade, id)
}

// deriveBaseState keeps the home base state in sync with combat: it is
// under attack while any attack state targets it, safe otherwise. Breached
// is terminal.
func (s *State) deriveBaseState() {
	base := s.registry.HomeBase()
	if base.State == HomeBaseBreached {
		return
	}

	underAttack := false
	for _, id := range s.combat.ActiveIDs() {
		if st, ok := s.combat.AttackStateFor(id); ok && st.TargetKind == combat.TargetHomeBase {
			underAttack = true
			break
		}
	}

	want := HomeBaseSafe
	if underAttack {
		want = HomeBaseUnderAttack
	}
	if base.State != want {
		base.State = want
		s.registry.SetHomeBase(base)
	}
}
