package sim

import "time"

// ZombieState is the lifecycle state of a zombie.
type ZombieState string

const (
	ZombieIdle      ZombieState = "idle"
	ZombieMoving    ZombieState = "moving"
	ZombieAttacking ZombieState = "attacking"
	ZombieDefeated  ZombieState = "defeated"
)

// Zombie is an autonomous attacker advancing on the home base. Owned
// exclusively by the Registry; the combat coordinator references it by id
// only.
type Zombie struct {
	ID        string      `json:"id"`
	Kind      string      `json:"kind"`
	Position  Vec3        `json:"position"`
	Health    float64     `json:"health"`
	MaxHealth float64     `json:"max_health"`
	State     ZombieState `json:"state"`

	// Combat stats, fixed per zombie for its lifetime.
	Speed          float64       `json:"speed"`
	AttackRange    float64       `json:"attack_range"`
	AttackDamage   float64       `json:"attack_damage"`
	AttackInterval time.Duration `json:"attack_interval"`
}

// Active reports whether the zombie participates in tick processing.
func (z *Zombie) Active() bool {
	return z.State == ZombieMoving || z.State == ZombieAttacking
}

// AttackerID implements combat.Attacker.
func (z *Zombie) AttackerID() string { return z.ID }

// Attacking implements combat.Attacker.
func (z *Zombie) Attacking() bool { return z.State == ZombieAttacking }

// SwingInterval implements combat.Attacker.
func (z *Zombie) SwingInterval() time.Duration { return z.AttackInterval }

// SwingDamage implements combat.Attacker.
func (z *Zombie) SwingDamage() float64 { return z.AttackDamage }

// BlockadeState is the lifecycle state of a blockade.
type BlockadeState string

const (
	BlockadeIntact   BlockadeState = "intact"
	BlockadeDefeated BlockadeState = "defeated"
)

// Blockade is a static obstacle zombies attack before reaching the base.
type Blockade struct {
	ID        string        `json:"id"`
	Position  Vec3          `json:"position"`
	Health    float64       `json:"health"`
	MaxHealth float64       `json:"max_health"`
	State     BlockadeState `json:"state"`
}

// Alive reports whether the blockade can still be targeted.
func (b *Blockade) Alive() bool {
	return b.State != BlockadeDefeated && b.Health > 0
}

// HomeBaseState is the lifecycle state of the home base.
type HomeBaseState string

const (
	HomeBaseSafe        HomeBaseState = "safe"
	HomeBaseUnderAttack HomeBaseState = "under-attack"
	HomeBaseBreached    HomeBaseState = "breached"
)

// HomeBase is the singleton the zombies are trying to reach. The registry
// holds it by value so exactly one instance exists at all times.
type HomeBase struct {
	Position  Vec3          `json:"position"`
	Health    float64       `json:"health"`
	MaxHealth float64       `json:"max_health"`
	State     HomeBaseState `json:"state"`
}

// ZombiePatch is a partial update for a zombie. Nil fields are left
// untouched.
type ZombiePatch struct {
	Position *Vec3
	Health   *float64
	State    *ZombieState
}

// BlockadePatch is a partial update for a blockade. Nil fields are left
// untouched.
type BlockadePatch struct {
	Position *Vec3
	Health   *float64
	State    *BlockadeState
}
