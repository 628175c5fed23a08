package broadcast

import (
	"context"
	"time"

	"github.com/pixil98/go-log"
)

// Control subjects. The UI's start/stop/reset controls arrive here instead
// of mutating simulation state directly.
const (
	SubjectControlStart = "horde.control.start"
	SubjectControlStop  = "horde.control.stop"
	SubjectControlReset = "horde.control.reset"
)

// Controls are the loop operations the bridge exposes over the broker.
type Controls struct {
	Start func()
	Stop  func()
	Reset func()
}

// ControlBridge subscribes the control subjects and forwards them to the
// simulation. It runs as a worker and keeps retrying until the broker is
// accepting subscriptions.
type ControlBridge struct {
	server   *NatsServer
	controls Controls
}

// NewControlBridge creates a bridge wiring the given controls.
func NewControlBridge(server *NatsServer, controls Controls) *ControlBridge {
	return &ControlBridge{
		server:   server,
		controls: controls,
	}
}

func (b *ControlBridge) Start(ctx context.Context) error {
	unsubs, err := b.subscribeAll(ctx)
	if err != nil {
		return err
	}
	if unsubs == nil {
		// Context ended before the broker came up.
		return nil
	}

	log.GetLogger(ctx).Infof("control bridge listening")

	<-ctx.Done()
	for _, unsub := range unsubs {
		unsub()
	}
	return nil
}

// subscribeAll waits for the broker to accept subscriptions, then attaches
// every control handler. It returns nil unsubs when the context ends
// first.
func (b *ControlBridge) subscribeAll(ctx context.Context) ([]func(), error) {
	handlers := map[string]func(){
		SubjectControlStart: b.controls.Start,
		SubjectControlStop:  b.controls.Stop,
		SubjectControlReset: b.controls.Reset,
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		var (
			unsubs []func()
			err    error
		)
		for subject, handler := range handlers {
			h := handler
			var unsub func()
			unsub, err = b.server.Subscribe(subject, func([]byte) {
				if h != nil {
					h()
				}
			})
			if err != nil {
				break
			}
			unsubs = append(unsubs, unsub)
		}
		if err == nil {
			return unsubs, nil
		}

		// Broker not up yet; drop partial subscriptions and retry.
		for _, unsub := range unsubs {
			unsub()
		}

		select {
		case <-ctx.Done():
			return nil, nil
		case <-ticker.C:
		}
	}
}
