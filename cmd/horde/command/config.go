package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval string         `json:"tick_interval"`
	Nats         NatsConfig     `json:"nats"`
	Assets       StorageConfig  `json:"assets"`
	Scenario     ScenarioConfig `json:"scenario"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		} else if d < 10*time.Millisecond {
			el.Add(fmt.Errorf("tick_interval must be at least 10ms"))
		}
	}

	el.Add(c.Nats.validate())
	el.Add(c.Assets.validate())
	el.Add(c.Scenario.validate())

	return el.Err()
}

type ScenarioConfig struct {
	// Layout is the id of the layout asset to play
	Layout string `json:"layout"`

	// Autostart begins the loop at boot instead of waiting for a start
	// control message
	Autostart bool `json:"autostart"`
}

func (c *ScenarioConfig) validate() error {
	el := errors.NewErrorList()

	if c.Layout == "" {
		el.Add(fmt.Errorf("layout is required"))
	}

	return el.Err()
}
