package scenario

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-horde/internal/sim"
)

// ZombieKind defines a type of zombie loaded from asset files. Multiple
// instances can be spawned from one definition.
type ZombieKind struct {
	// MaxHealth is the spawn health of the zombie
	MaxHealth float64 `json:"max_health"`

	// Speed is the advance speed in world units per second
	Speed float64 `json:"speed"`

	// AttackRange is the distance at which the zombie stops and attacks
	AttackRange float64 `json:"attack_range"`

	// AttackDamage is the health removed per landed hit
	AttackDamage float64 `json:"attack_damage"`

	// AttackInterval is the cooldown between hits (e.g. "1s")
	AttackInterval string `json:"attack_interval"`
}

func (k *ZombieKind) Validate() error {
	el := errors.NewErrorList()

	if k.MaxHealth <= 0 {
		el.Add(fmt.Errorf("max_health must be positive"))
	}
	if k.Speed < 0 {
		el.Add(fmt.Errorf("speed must not be negative"))
	}
	if k.AttackRange <= 0 {
		el.Add(fmt.Errorf("attack_range must be positive"))
	}
	if k.AttackDamage <= 0 {
		el.Add(fmt.Errorf("attack_damage must be positive"))
	}

	d, err := time.ParseDuration(k.AttackInterval)
	if err != nil {
		el.Add(fmt.Errorf("parsing attack_interval: %w", err))
	} else if d <= 0 {
		el.Add(fmt.Errorf("attack_interval must be positive"))
	}

	return el.Err()
}

// Interval returns the parsed attack interval. Validate must have passed.
func (k *ZombieKind) Interval() time.Duration {
	d, _ := time.ParseDuration(k.AttackInterval)
	return d
}

// Spawn builds a zombie instance of this kind at the given position.
func (k *ZombieKind) Spawn(id, kind string, at sim.Vec3) sim.Zombie {
	return sim.Zombie{
		ID:             id,
		Kind:           kind,
		Position:       at,
		Health:         k.MaxHealth,
		MaxHealth:      k.MaxHealth,
		State:          sim.ZombieMoving,
		Speed:          k.Speed,
		AttackRange:    k.AttackRange,
		AttackDamage:   k.AttackDamage,
		AttackInterval: k.Interval(),
	}
}

// Wave defines one group of zombies entering the simulation together.
type Wave struct {
	// Kind references a ZombieKind asset id
	Kind string `json:"kind"`

	// Count is how many zombies the wave spawns
	Count int `json:"count"`

	// StartAfter is the simulation time the wave begins at (e.g. "10s")
	StartAfter string `json:"start_after"`

	// Spacing is the simulation time between members (e.g. "500ms")
	Spacing string `json:"spacing"`

	// SpawnAt is where the wave enters the world
	SpawnAt sim.Vec3 `json:"spawn_at"`
}

func (w *Wave) Validate() error {
	el := errors.NewErrorList()

	if w.Kind == "" {
		el.Add(fmt.Errorf("kind is required"))
	}
	if w.Count <= 0 {
		el.Add(fmt.Errorf("count must be positive"))
	}

	if _, err := time.ParseDuration(w.StartAfter); err != nil {
		el.Add(fmt.Errorf("parsing start_after: %w", err))
	}
	if w.Spacing != "" {
		if _, err := time.ParseDuration(w.Spacing); err != nil {
			el.Add(fmt.Errorf("parsing spacing: %w", err))
		}
	}

	return el.Err()
}

// Layout defines the defensive setup of a scenario: the home base and the
// blockades between it and the spawn points.
type Layout struct {
	HomeBase  BasePlacement       `json:"home_base"`
	Blockades []BlockadePlacement `json:"blockades"`
}

type BasePlacement struct {
	Position  sim.Vec3 `json:"position"`
	MaxHealth float64  `json:"max_health"`
}

type BlockadePlacement struct {
	ID        string   `json:"id"`
	Position  sim.Vec3 `json:"position"`
	MaxHealth float64  `json:"max_health"`
}

func (l *Layout) Validate() error {
	el := errors.NewErrorList()

	if l.HomeBase.MaxHealth <= 0 {
		el.Add(fmt.Errorf("home_base: max_health must be positive"))
	}

	seen := make(map[string]bool, len(l.Blockades))
	for i, b := range l.Blockades {
		if b.ID == "" {
			el.Add(fmt.Errorf("blockade %d: id is required", i))
		}
		if seen[b.ID] {
			el.Add(fmt.Errorf("blockade %d: duplicate id %q", i, b.ID))
		}
		seen[b.ID] = true
		if b.MaxHealth <= 0 {
			el.Add(fmt.Errorf("blockade %d: max_health must be positive", i))
		}
	}

	return el.Err()
}

// Base returns the home base the layout describes, at full health.
func (l *Layout) Base() sim.HomeBase {
	return sim.HomeBase{
		Position:  l.HomeBase.Position,
		Health:    l.HomeBase.MaxHealth,
		MaxHealth: l.HomeBase.MaxHealth,
		State:     sim.HomeBaseSafe,
	}
}

// Build returns the blockades the layout describes, at full health.
func (l *Layout) Build() []sim.Blockade {
	out := make([]sim.Blockade, 0, len(l.Blockades))
	for _, b := range l.Blockades {
		out = append(out, sim.Blockade{
			ID:        b.ID,
			Position:  b.Position,
			Health:    b.MaxHealth,
			MaxHealth: b.MaxHealth,
			State:     sim.BlockadeIntact,
		})
	}
	return out
}
