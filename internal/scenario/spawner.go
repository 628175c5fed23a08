package scenario

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-horde/internal/sim"
	"github.com/pixil98/go-log"
)

// pendingSpawn is one zombie waiting on the schedule.
type pendingSpawn struct {
	at     time.Duration
	waveID string
	index  int
	kindID string
	kind   *ZombieKind
	pos    sim.Vec3
}

// Spawner registers wave zombies into the simulation as their schedule
// comes due. The schedule is keyed to simulation time, not wall clock, so
// pausing the loop pauses the waves with it.
type Spawner struct {
	state *sim.State

	mu      sync.Mutex
	pending []pendingSpawn
	initial []pendingSpawn
}

// NewSpawner builds a spawn schedule from the given waves. Every wave must
// reference a known zombie kind and have validated durations.
func NewSpawner(state *sim.State, kinds map[string]*ZombieKind, waves map[string]*Wave) (*Spawner, error) {
	var pending []pendingSpawn

	for waveID, w := range waves {
		kind, ok := kinds[w.Kind]
		if !ok {
			return nil, fmt.Errorf("wave %q: unknown zombie kind %q", waveID, w.Kind)
		}

		start, err := time.ParseDuration(w.StartAfter)
		if err != nil {
			return nil, fmt.Errorf("wave %q: parsing start_after: %w", waveID, err)
		}
		var spacing time.Duration
		if w.Spacing != "" {
			spacing, err = time.ParseDuration(w.Spacing)
			if err != nil {
				return nil, fmt.Errorf("wave %q: parsing spacing: %w", waveID, err)
			}
		}

		for i := 0; i < w.Count; i++ {
			pending = append(pending, pendingSpawn{
				at:     start + time.Duration(i)*spacing,
				waveID: waveID,
				index:  i,
				kindID: w.Kind,
				kind:   kind,
				pos:    w.SpawnAt,
			})
		}
	}

	// Stable order: by due time, then wave id, then index.
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].at != pending[j].at {
			return pending[i].at < pending[j].at
		}
		if pending[i].waveID != pending[j].waveID {
			return pending[i].waveID < pending[j].waveID
		}
		return pending[i].index < pending[j].index
	})

	return &Spawner{
		state:   state,
		pending: pending,
		initial: append([]pendingSpawn(nil), pending...),
	}, nil
}

// Tick spawns every scheduled zombie whose due time has passed. Called
// every tick by the driver.
func (s *Spawner) Tick(ctx context.Context) error {
	if !s.state.IsActive() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger := log.GetLogger(ctx)
	now := s.state.Clock()

	for len(s.pending) > 0 && s.pending[0].at <= now {
		p := s.pending[0]
		s.pending = s.pending[1:]

		z := p.kind.Spawn(uuid.New().String(), p.kindID, p.pos)
		if err := s.state.AddZombie(z); err != nil {
			return fmt.Errorf("spawning wave %q zombie: %w", p.waveID, err)
		}
		if p.index == 0 {
			logger.Infof("wave %q started", p.waveID)
		}
	}

	return nil
}

// Remaining returns how many scheduled spawns are still pending.
func (s *Spawner) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Reset restores the full spawn schedule; used alongside a simulation
// reset.
func (s *Spawner) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append([]pendingSpawn(nil), s.initial...)
}
