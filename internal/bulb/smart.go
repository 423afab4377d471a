// Package bulb builds smart bulbs on top of the plain on/off device.
package bulb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/roomlights/internal/device"
	"github.com/dokzlo13/roomlights/internal/timer"
)

// SmartBulb is a light that can stay on for the length of its own timer.
type SmartBulb struct {
	*device.Device
	timer timer.Timer
}

// NewSmart creates a bulb whose timer lasts d.
func NewSmart(d time.Duration, opts ...device.Option) (*SmartBulb, error) {
	dev := device.New(opts...)
	t, err := timer.New(d,
		timer.WithOutput(dev.Output()),
		timer.WithPublisher(dev.Publisher(), dev.ID()),
	)
	if err != nil {
		return nil, fmt.Errorf("bulb %s: %w", dev.Name(), err)
	}
	return &SmartBulb{Device: dev, timer: t}, nil
}

// TimerDuration returns how long TurnOnWithTimer keeps the light on.
func (b *SmartBulb) TimerDuration() time.Duration {
	return b.timer.Duration()
}

// TurnOnWithTimer turns the light on, waits for the timer and turns it off.
// The light is off afterwards even if the wait was interrupted.
func (b *SmartBulb) TurnOnWithTimer(ctx context.Context) timer.Result {
	b.TurnOn()
	res := b.timer.Start(ctx)
	b.TurnOff()

	log.Debug().
		Str("device", b.Name()).
		Dur("timer", b.timer.Duration()).
		Stringer("result", res).
		Msg("Timed light cycle done")
	return res
}
