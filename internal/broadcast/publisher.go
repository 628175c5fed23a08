package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-horde/internal/combat"
	"github.com/pixil98/go-horde/internal/sim"
)

// Subjects the simulation publishes on. Renderers subscribe to the
// snapshot for full state and to the event subjects for one-shot effects.
const (
	SubjectSnapshot = "horde.snapshot"
	SubjectDamage   = "horde.event.damage"
	SubjectBlockade = "horde.event.blockade"
	SubjectBreach   = "horde.event.breach"
)

// Publisher broadcasts the simulation read model: the full snapshot once
// per tick, plus per-event messages as tick processing reports them. It
// never mutates simulation state.
type Publisher struct {
	state  *sim.State
	server *NatsServer
}

// NewPublisher wraps a NatsServer for snapshot and event delivery.
func NewPublisher(state *sim.State, server *NatsServer) *Publisher {
	return &Publisher{
		state:  state,
		server: server,
	}
}

// Tick publishes the current snapshot. Called every tick by the driver,
// after the simulation ticker has run.
func (p *Publisher) Tick(ctx context.Context) error {
	data, err := json.Marshal(p.state.Snapshot())
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	return p.server.Publish(SubjectSnapshot, data)
}

// DamageDealt implements sim.EventSink.
func (p *Publisher) DamageDealt(ev combat.DamageEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_ = p.server.Publish(SubjectDamage, data)
}

// BlockadeDestroyed implements sim.EventSink.
func (p *Publisher) BlockadeDestroyed(id string) {
	data, err := json.Marshal(map[string]string{"id": id})
	if err != nil {
		return
	}
	_ = p.server.Publish(SubjectBlockade, data)
}

// HomeBaseBreached implements sim.EventSink.
func (p *Publisher) HomeBaseBreached() {
	_ = p.server.Publish(SubjectBreach, nil)
}
