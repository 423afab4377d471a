package app

import (
	"context"
	"fmt"

	"github.com/dokzlo13/roomlights/internal/bulb"
	"github.com/dokzlo13/roomlights/internal/config"
	"github.com/dokzlo13/roomlights/internal/console"
	"github.com/dokzlo13/roomlights/internal/device"
	"github.com/dokzlo13/roomlights/internal/eventbus"
	"github.com/dokzlo13/roomlights/internal/room"
)

// Services is a container for everything the demo runs.
// The room only references the bulbs; Services owns them.
type Services struct {
	cfg *config.Config

	Bus      *eventbus.Bus
	Recorder *Recorder

	Bulbs   []*bulb.SmartBulb
	Room    *room.Room
	Blinker *bulb.BlinkingBulb
}

// NewServices builds the bulbs, the room and the blinker from cfg.
func NewServices(cfg *config.Config, out *console.Printer) (*Services, error) {
	s := &Services{cfg: cfg}

	s.Bus = eventbus.NewWithConfig(cfg.EventBus.Workers, cfg.EventBus.QueueSize)
	s.Recorder = NewRecorder()
	s.Recorder.Attach(s.Bus)

	lights := make([]room.TimedLight, 0, len(cfg.Room.Bulbs))
	for i, bc := range cfg.Room.Bulbs {
		b, err := bulb.NewSmart(seconds(bc.Timer),
			device.WithName(bc.Name),
			device.WithOutput(out),
			device.WithPublisher(s.Bus),
		)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("room bulb %d: %w", i, err)
		}
		s.Recorder.Name(b.ID(), b.Name())
		s.Bulbs = append(s.Bulbs, b)
		lights = append(lights, b)
	}
	s.Room = room.New(cfg.Room.Name, lights, out)

	blinker, err := bulb.NewBlinking(seconds(cfg.Blinker.Timer),
		bulb.BlinkConfig{
			Cycles:   cfg.Blinker.Cycles,
			Interval: cfg.Blinker.Interval.Duration(),
		},
		device.WithName(cfg.Blinker.Name),
		device.WithOutput(out),
		device.WithPublisher(s.Bus),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("blinker: %w", err)
	}
	s.Recorder.Name(blinker.ID(), blinker.Name())
	s.Blinker = blinker

	return s, nil
}

// Close drains the event bus, waiting at most the configured shutdown timeout.
func (s *Services) Close() {
	if s.Bus == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout.Duration())
	defer cancel()
	s.Bus.Close(ctx)
}
