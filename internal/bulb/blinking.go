package bulb

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/roomlights/internal/device"
	"github.com/dokzlo13/roomlights/internal/eventbus"
	"github.com/dokzlo13/roomlights/internal/timer"
)

// Blink defaults
const (
	DefaultBlinkCycles   = 5
	DefaultBlinkInterval = 500 * time.Millisecond
)

// BlinkConfig controls the blink loop. Zero values fall back to defaults.
type BlinkConfig struct {
	Cycles   int
	Interval time.Duration
}

// BlinkResult describes how a Run call ended.
type BlinkResult struct {
	Completed   int // full on/off cycles
	Interrupted bool
}

// BlinkingBulb is a smart bulb that toggles itself on its own goroutine.
// Its timer is carried over from SmartBulb but not used while blinking.
type BlinkingBulb struct {
	*SmartBulb
	cycles   int
	interval time.Duration
}

// NewBlinking creates a blinking bulb whose inherited timer lasts d.
func NewBlinking(d time.Duration, cfg BlinkConfig, opts ...device.Option) (*BlinkingBulb, error) {
	sb, err := NewSmart(d, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Cycles <= 0 {
		cfg.Cycles = DefaultBlinkCycles
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultBlinkInterval
	}
	return &BlinkingBulb{SmartBulb: sb, cycles: cfg.Cycles, interval: cfg.Interval}, nil
}

// Run blinks the light until all cycles are done or ctx is cancelled.
// A cancelled run stops where it is and may leave the light on.
func (b *BlinkingBulb) Run(ctx context.Context) BlinkResult {
	out := b.Output()
	out.Println("Blinking started...")
	b.publish("started", 0)

	var res BlinkResult
	for res.Completed < b.cycles {
		b.TurnOn()
		if timer.Sleep(ctx, b.interval) == timer.Interrupted {
			res.Interrupted = true
			break
		}
		b.TurnOff()
		if timer.Sleep(ctx, b.interval) == timer.Interrupted {
			res.Interrupted = true
			break
		}
		res.Completed++
	}

	if res.Interrupted {
		out.Println("Blinking interrupted.")
		b.publish("interrupted", res.Completed)
	} else {
		out.Println("Blinking ended.")
		b.publish("ended", res.Completed)
	}

	log.Debug().
		Str("device", b.Name()).
		Int("cycles", res.Completed).
		Bool("interrupted", res.Interrupted).
		Msg("Blinking done")
	return res
}

func (b *BlinkingBulb) publish(phase string, completed int) {
	pub := b.Publisher()
	if pub == nil {
		return
	}
	pub.Publish(eventbus.Event{
		Type:     eventbus.EventTypeBlink,
		DeviceID: b.ID(),
		Data:     map[string]any{"phase": phase, "cycles": completed},
	})
}
