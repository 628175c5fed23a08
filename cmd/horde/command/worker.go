package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-horde/internal/broadcast"
	"github.com/pixil98/go-horde/internal/driver"
	"github.com/pixil98/go-horde/internal/scenario"
	"github.com/pixil98/go-horde/internal/sim"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Create the nats server
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Load scenario definitions
	library, err := cfg.Assets.BuildLibrary()
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}

	layout := library.Layouts.Get(cfg.Scenario.Layout)
	if layout == nil {
		return nil, fmt.Errorf("unknown layout %q", cfg.Scenario.Layout)
	}

	// Build the simulation state from the layout
	state := sim.NewState(layout.Base())
	for _, b := range layout.Build() {
		if err := state.AddBlockade(b); err != nil {
			return nil, fmt.Errorf("placing blockade: %w", err)
		}
	}

	spawner, err := scenario.NewSpawner(state, library.Kinds.GetAll(), library.Waves.GetAll())
	if err != nil {
		return nil, fmt.Errorf("creating spawner: %w", err)
	}

	publisher := broadcast.NewPublisher(state, natsServer)
	state.SetEventSink(publisher)

	// A reset restores the scenario, not just empty stores: the layout's
	// blockades come back and the spawn schedule starts over.
	reset := func() {
		state.Reset()
		for _, b := range layout.Build() {
			_ = state.AddBlockade(b)
		}
		spawner.Reset()
	}

	bridge := broadcast.NewControlBridge(natsServer, broadcast.Controls{
		Start: state.Start,
		Stop:  state.Stop,
		Reset: reset,
	})

	// Setup the sim driver: spawn, tick, then publish.
	var opts []driver.SimDriverOpt
	if cfg.TickInterval != "" {
		d, err := time.ParseDuration(cfg.TickInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing tick_interval: %w", err)
		}
		opts = append(opts, driver.WithTickLength(d))
	}
	simDriver := driver.NewSimDriver([]driver.Manager{
		spawner,
		sim.NewTicker(state),
		publisher,
	}, opts...)

	if cfg.Scenario.Autostart {
		state.Start()
	}

	// Create a worker list
	return service.WorkerList{
		"nats":    natsServer,
		"driver":  simDriver,
		"control": bridge,
	}, nil
}
