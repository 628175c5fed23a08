package combat

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type fakeAttacker struct {
	id        string
	attacking bool
	interval  time.Duration
	damage    float64
}

func (f *fakeAttacker) AttackerID() string           { return f.id }
func (f *fakeAttacker) Attacking() bool              { return f.attacking }
func (f *fakeAttacker) SwingInterval() time.Duration { return f.interval }
func (f *fakeAttacker) SwingDamage() float64         { return f.damage }

type fakeWorld struct {
	attackers map[string]*fakeAttacker
	dead      map[string]bool
}

func newFakeWorld(attackers ...*fakeAttacker) *fakeWorld {
	w := &fakeWorld{
		attackers: map[string]*fakeAttacker{},
		dead:      map[string]bool{},
	}
	for _, a := range attackers {
		w.attackers[a.id] = a
	}
	return w
}

func (w *fakeWorld) Attacker(id string) (Attacker, bool) {
	a, ok := w.attackers[id]
	if !ok {
		return nil, false
	}
	return a, true
}

func (w *fakeWorld) TargetAlive(kind TargetKind, id string) bool {
	if kind == TargetHomeBase {
		return !w.dead["homebase"]
	}
	return !w.dead[id]
}

func TestBeginAttack(t *testing.T) {
	tests := map[string]struct {
		setup      func(c *Coordinator)
		expTarget  string
		expKind    TargetKind
		expEntries int
	}{
		"new attack starts with zero cooldown": {
			setup: func(c *Coordinator) {
				c.BeginAttack("z1", "b1", TargetBlockade)
			},
			expTarget:  "b1",
			expKind:    TargetBlockade,
			expEntries: 1,
		},
		"same target is idempotent": {
			setup: func(c *Coordinator) {
				c.BeginAttack("z1", "b1", TargetBlockade)
				c.BeginAttack("z1", "b1", TargetBlockade)
			},
			expTarget:  "b1",
			expKind:    TargetBlockade,
			expEntries: 1,
		},
		"different target retargets the entry": {
			setup: func(c *Coordinator) {
				c.BeginAttack("z1", "b1", TargetBlockade)
				c.BeginAttack("z1", "", TargetHomeBase)
			},
			expTarget:  "",
			expKind:    TargetHomeBase,
			expEntries: 1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewCoordinator()
			tc.setup(c)

			st, ok := c.AttackStateFor("z1")
			testutil.AssertEqual(t, "entry exists", ok, true)
			testutil.AssertEqual(t, "target id", st.TargetID, tc.expTarget)
			testutil.AssertEqual(t, "target kind", st.TargetKind, tc.expKind)
			testutil.AssertEqual(t, "cooldown", st.CooldownRemaining, time.Duration(0))
			testutil.AssertEqual(t, "entries", c.Len(), tc.expEntries)
		})
	}
}

func TestBeginAttackRetargetKeepsCooldown(t *testing.T) {
	world := newFakeWorld(&fakeAttacker{id: "z1", attacking: true, interval: 2 * time.Second, damage: 10})

	c := NewCoordinator()
	c.BeginAttack("z1", "b1", TargetBlockade)

	// First resolve fires immediately and rearms the cooldown.
	events := c.ResolveTick(time.Second, world)
	testutil.AssertEqual(t, "events", len(events), 1)

	c.BeginAttack("z1", "b2", TargetBlockade)

	st, _ := c.AttackStateFor("z1")
	testutil.AssertEqual(t, "target id", st.TargetID, "b2")
	testutil.AssertEqual(t, "cooldown preserved", st.CooldownRemaining, 2*time.Second)
}

// Scenario from the design: a 1s attack interval dealing 25 damage fires
// once per 1s tick, starting with the first tick.
func TestResolveTickCooldownCycle(t *testing.T) {
	world := newFakeWorld(&fakeAttacker{id: "z1", attacking: true, interval: time.Second, damage: 25})

	c := NewCoordinator()
	c.BeginAttack("z1", "b1", TargetBlockade)

	total := 0.0
	for i := 0; i < 4; i++ {
		events := c.ResolveTick(time.Second, world)
		testutil.AssertEqual(t, "events per tick", len(events), 1)
		testutil.AssertEqual(t, "attacker", events[0].AttackerID, "z1")
		testutil.AssertEqual(t, "target", events[0].TargetID, "b1")
		testutil.AssertEqual(t, "amount", events[0].Amount, 25.0)
		total += events[0].Amount
	}
	testutil.AssertEqual(t, "total damage", total, 100.0)

	st, _ := c.AttackStateFor("z1")
	testutil.AssertEqual(t, "last attack at", st.LastAttackAt, 4*time.Second)
}

func TestResolveTickPartialCooldown(t *testing.T) {
	world := newFakeWorld(&fakeAttacker{id: "z1", attacking: true, interval: time.Second, damage: 25})

	c := NewCoordinator()
	c.BeginAttack("z1", "b1", TargetBlockade)

	// First swing lands immediately.
	events := c.ResolveTick(400*time.Millisecond, world)
	testutil.AssertEqual(t, "first swing", len(events), 1)

	// 400ms + 400ms < 1s: still cooling down.
	events = c.ResolveTick(400*time.Millisecond, world)
	testutil.AssertEqual(t, "cooling down", len(events), 0)

	// 1.2s elapsed since the swing: fires again.
	events = c.ResolveTick(800*time.Millisecond, world)
	testutil.AssertEqual(t, "second swing", len(events), 1)
}

// The coordinator's clock accumulates across ticks with no attack states,
// so LastAttackAt reflects total simulation time, not time-while-fighting.
func TestResolveTickClockAdvancesWithoutStates(t *testing.T) {
	world := newFakeWorld(&fakeAttacker{id: "z1", attacking: true, interval: time.Second, damage: 25})

	c := NewCoordinator()

	// Two seconds pass before anything attacks.
	c.ResolveTick(time.Second, world)
	c.ResolveTick(time.Second, world)

	c.BeginAttack("z1", "b1", TargetBlockade)
	events := c.ResolveTick(time.Second, world)

	testutil.AssertEqual(t, "events", len(events), 1)
	st, _ := c.AttackStateFor("z1")
	testutil.AssertEqual(t, "last attack at", st.LastAttackAt, 3*time.Second)
}

func TestResolveTickZeroElapsed(t *testing.T) {
	world := newFakeWorld(&fakeAttacker{id: "z1", attacking: true, interval: time.Second, damage: 25})

	c := NewCoordinator()
	c.BeginAttack("z1", "b1", TargetBlockade)

	before, _ := c.AttackStateFor("z1")
	events := c.ResolveTick(0, world)
	after, _ := c.AttackStateFor("z1")

	testutil.AssertEqual(t, "events", len(events), 0)
	testutil.AssertEqual(t, "state unchanged", after, before)
}

func TestResolveTickDropsStaleEntries(t *testing.T) {
	tests := map[string]struct {
		world *fakeWorld
	}{
		"attacker gone": {
			world: newFakeWorld(),
		},
		"attacker no longer attacking": {
			world: newFakeWorld(&fakeAttacker{id: "z1", attacking: false, interval: time.Second, damage: 25}),
		},
		"target destroyed": {
			world: func() *fakeWorld {
				w := newFakeWorld(&fakeAttacker{id: "z1", attacking: true, interval: time.Second, damage: 25})
				w.dead["b1"] = true
				return w
			}(),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewCoordinator()
			c.BeginAttack("z1", "b1", TargetBlockade)

			events := c.ResolveTick(time.Second, tc.world)

			testutil.AssertEqual(t, "events", len(events), 0)
			testutil.AssertEqual(t, "entries", c.Len(), 0)
		})
	}
}

func TestResolveTickDeterministicOrder(t *testing.T) {
	world := newFakeWorld(
		&fakeAttacker{id: "z3", attacking: true, interval: time.Second, damage: 1},
		&fakeAttacker{id: "z1", attacking: true, interval: time.Second, damage: 1},
		&fakeAttacker{id: "z2", attacking: true, interval: time.Second, damage: 1},
	)

	c := NewCoordinator()
	c.BeginAttack("z3", "b1", TargetBlockade)
	c.BeginAttack("z1", "b1", TargetBlockade)
	c.BeginAttack("z2", "b1", TargetBlockade)

	events := c.ResolveTick(time.Second, world)

	testutil.AssertEqual(t, "events", len(events), 3)
	testutil.AssertEqual(t, "first", events[0].AttackerID, "z1")
	testutil.AssertEqual(t, "second", events[1].AttackerID, "z2")
	testutil.AssertEqual(t, "third", events[2].AttackerID, "z3")
}

func TestClearAttackState(t *testing.T) {
	c := NewCoordinator()
	c.BeginAttack("z1", "b1", TargetBlockade)

	c.ClearAttackState("z1")
	testutil.AssertEqual(t, "entries after clear", c.Len(), 0)

	// Clearing a missing id is a true no-op.
	c.BeginAttack("z2", "b1", TargetBlockade)
	before := c.ActiveIDs()
	c.ClearAttackState("z1")
	after := c.ActiveIDs()

	testutil.AssertEqual(t, "ids unchanged", len(after), len(before))
	testutil.AssertEqual(t, "remaining id", after[0], "z2")
}

func TestClearTargeting(t *testing.T) {
	c := NewCoordinator()
	c.BeginAttack("z1", "b1", TargetBlockade)
	c.BeginAttack("z2", "b2", TargetBlockade)
	c.BeginAttack("z3", "b1", TargetBlockade)
	c.BeginAttack("z4", "", TargetHomeBase)

	cleared := c.ClearTargeting(TargetBlockade, "b1")

	testutil.AssertEqual(t, "cleared count", len(cleared), 2)
	testutil.AssertEqual(t, "cleared first", cleared[0], "z1")
	testutil.AssertEqual(t, "cleared second", cleared[1], "z3")
	testutil.AssertEqual(t, "entries left", c.Len(), 2)

	cleared = c.ClearTargeting(TargetHomeBase, "")
	testutil.AssertEqual(t, "homebase cleared", len(cleared), 1)
	testutil.AssertEqual(t, "homebase attacker", cleared[0], "z4")
}

func TestReset(t *testing.T) {
	world := newFakeWorld(&fakeAttacker{id: "z1", attacking: true, interval: time.Second, damage: 25})

	c := NewCoordinator()
	c.BeginAttack("z1", "b1", TargetBlockade)
	c.ResolveTick(time.Second, world)

	c.Reset()

	testutil.AssertEqual(t, "entries", c.Len(), 0)

	// The sim clock restarts too: a fresh attack stamps from zero.
	c.BeginAttack("z1", "b1", TargetBlockade)
	c.ResolveTick(time.Second, world)
	st, _ := c.AttackStateFor("z1")
	testutil.AssertEqual(t, "last attack at", st.LastAttackAt, time.Second)
}
