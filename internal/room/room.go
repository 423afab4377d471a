// Package room groups lights that are controlled together.
package room

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/roomlights/internal/console"
	"github.com/dokzlo13/roomlights/internal/timer"
)

// TimedLight is a light that can run a timed on/off cycle.
type TimedLight interface {
	TurnOnWithTimer(ctx context.Context) timer.Result
}

// Room references a fixed, ordered set of lights. It does not own them:
// the same light may be referenced from elsewhere.
type Room struct {
	name   string
	lights []TimedLight
	out    *console.Printer
}

// New creates a room. The light list is copied; the lights themselves are not.
func New(name string, lights []TimedLight, out *console.Printer) *Room {
	if out == nil {
		out = console.Stdout()
	}
	return &Room{
		name:   name,
		lights: append([]TimedLight(nil), lights...),
		out:    out,
	}
}

// Name returns the room name.
func (r *Room) Name() string {
	return r.name
}

// Lights returns the lights in control order.
func (r *Room) Lights() []TimedLight {
	return append([]TimedLight(nil), r.lights...)
}

// ControlAllLights runs each light's timed cycle one after another, in order.
// An interrupted light does not stop the loop; later lights see the same
// cancelled ctx and are interrupted immediately.
func (r *Room) ControlAllLights(ctx context.Context) []timer.Result {
	r.out.Printf("Controlling lights in: %s", r.name)

	results := make([]timer.Result, 0, len(r.lights))
	for i, l := range r.lights {
		res := l.TurnOnWithTimer(ctx)
		log.Debug().Str("room", r.name).Int("light", i).Stringer("result", res).Msg("Light cycle finished")
		results = append(results, res)
	}
	return results
}
