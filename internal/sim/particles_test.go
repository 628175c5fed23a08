package sim

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestParticleLedgerPreservesInsertionOrder(t *testing.T) {
	l := NewParticleLedger()

	l.Add(Particle{Kind: "a"}, Particle{Kind: "b"})
	l.Add(Particle{Kind: "c"})

	got := l.Particles()
	testutil.AssertEqual(t, "count", len(got), 3)
	testutil.AssertEqual(t, "first", got[0].Kind, "a")
	testutil.AssertEqual(t, "second", got[1].Kind, "b")
	testutil.AssertEqual(t, "third", got[2].Kind, "c")
}

func TestParticleLedgerSetAndClear(t *testing.T) {
	l := NewParticleLedger()
	l.Add(Particle{Kind: "a"})

	l.Set([]Particle{{Kind: "x"}, {Kind: "y"}})
	testutil.AssertEqual(t, "count after set", l.Len(), 2)
	testutil.AssertEqual(t, "first after set", l.Particles()[0].Kind, "x")

	l.Clear()
	testutil.AssertEqual(t, "count after clear", l.Len(), 0)
}

func TestParticleLedgerCopies(t *testing.T) {
	l := NewParticleLedger()
	l.Add(Particle{Kind: "a"})

	got := l.Particles()
	got[0].Kind = "mutated"

	testutil.AssertEqual(t, "ledger untouched", l.Particles()[0].Kind, "a")
}

func TestParticleLedgerDropExpired(t *testing.T) {
	l := NewParticleLedger()
	l.Add(
		Particle{Kind: "short", SpawnedAt: 0, Lifetime: time.Second},
		Particle{Kind: "long", SpawnedAt: 0, Lifetime: 5 * time.Second},
		Particle{Kind: "forever", SpawnedAt: 0}, // zero lifetime never expires
	)

	dropped := l.DropExpired(2 * time.Second)

	testutil.AssertEqual(t, "dropped", dropped, 1)
	got := l.Particles()
	testutil.AssertEqual(t, "count", len(got), 2)
	testutil.AssertEqual(t, "first survivor", got[0].Kind, "long")
	testutil.AssertEqual(t, "second survivor", got[1].Kind, "forever")
}
