// Package device provides the on/off capability shared by every light.
package device

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/roomlights/internal/console"
	"github.com/dokzlo13/roomlights/internal/eventbus"
)

// Switchable is anything that can be turned on and off.
type Switchable interface {
	TurnOn()
	TurnOff()
	IsOn() bool
}

// Device holds the on/off state of a single light. A new device is off.
type Device struct {
	id   string
	name string
	out  *console.Printer
	bus  eventbus.Publisher

	mu sync.RWMutex
	on bool
}

// Option configures a Device.
type Option func(*Device)

// WithName sets a human-readable name used in logs.
func WithName(name string) Option {
	return func(d *Device) { d.name = name }
}

// WithOutput sets where status lines are printed.
func WithOutput(p *console.Printer) Option {
	return func(d *Device) {
		if p != nil {
			d.out = p
		}
	}
}

// WithPublisher sets where state events are sent.
func WithPublisher(pub eventbus.Publisher) Option {
	return func(d *Device) { d.bus = pub }
}

// New creates a device in the off state.
func New(opts ...Option) *Device {
	d := &Device{
		id:  uuid.NewString(),
		out: console.Stdout(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.name == "" {
		d.name = d.id[:8]
	}
	return d
}

// ID returns the device's unique ID.
func (d *Device) ID() string { return d.id }

// Name returns the device's name.
func (d *Device) Name() string { return d.name }

// Output returns the printer the device writes status lines to.
func (d *Device) Output() *console.Printer { return d.out }

// Publisher returns the event publisher, or nil.
func (d *Device) Publisher() eventbus.Publisher { return d.bus }

// IsOn reports the current state.
func (d *Device) IsOn() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.on
}

// TurnOn switches the light on. Calling it on a light that is already on
// just prints the status again.
func (d *Device) TurnOn() {
	d.set(true)
	d.out.Println("Light is turned ON.")
}

// TurnOff switches the light off.
func (d *Device) TurnOff() {
	d.set(false)
	d.out.Println("Light is turned OFF.")
}

func (d *Device) set(on bool) {
	d.mu.Lock()
	prev := d.on
	d.on = on
	d.mu.Unlock()

	log.Debug().
		Str("device", d.name).
		Str("device_id", d.id).
		Bool("on", on).
		Bool("changed", prev != on).
		Msg("Light state set")

	if d.bus != nil {
		d.bus.Publish(eventbus.Event{
			Type:     eventbus.EventTypeState,
			DeviceID: d.id,
			Data:     map[string]any{"on": on, "changed": prev != on},
		})
	}
}
