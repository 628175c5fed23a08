package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = 100 * time.Millisecond
)

// Manager is anything that needs to be advanced once per tick.
type Manager interface {
	Tick(context.Context) error
}

// SimDriver is the external scheduler: it invokes each manager once per
// tick, in registration order, for as long as its context lives.
type SimDriver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewSimDriver(managers []Manager, opts ...SimDriverOpt) *SimDriver {
	d := &SimDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *SimDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *SimDriver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
