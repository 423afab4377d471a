// Package timer implements the blocking delay a smart bulb stays on for.
package timer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/roomlights/internal/console"
	"github.com/dokzlo13/roomlights/internal/eventbus"
)

// ErrNegativeDuration is returned when a timer is built with a negative duration.
var ErrNegativeDuration = errors.New("negative timer duration")

// Result is how a Start call ended.
type Result int

const (
	Finished Result = iota
	Interrupted
)

func (r Result) String() string {
	switch r {
	case Finished:
		return "finished"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Timer blocks its caller for a fixed duration.
// The duration cannot change after construction.
type Timer struct {
	duration time.Duration
	out      *console.Printer
	bus      eventbus.Publisher
	owner    string
}

// Option configures a Timer.
type Option func(*Timer)

// WithOutput sets where status lines are printed.
func WithOutput(p *console.Printer) Option {
	return func(t *Timer) {
		if p != nil {
			t.out = p
		}
	}
}

// WithPublisher sends timer events tagged with the owning device ID.
func WithPublisher(pub eventbus.Publisher, ownerID string) Option {
	return func(t *Timer) {
		t.bus = pub
		t.owner = ownerID
	}
}

// New creates a timer. Negative durations are rejected.
func New(d time.Duration, opts ...Option) (Timer, error) {
	if d < 0 {
		return Timer{}, fmt.Errorf("%w: %s", ErrNegativeDuration, d)
	}
	t := Timer{duration: d, out: console.Stdout()}
	for _, opt := range opts {
		opt(&t)
	}
	return t, nil
}

// FromSeconds creates a timer lasting the given number of whole seconds.
func FromSeconds(seconds int, opts ...Option) (Timer, error) {
	return New(time.Duration(seconds)*time.Second, opts...)
}

// Duration returns the configured duration.
func (t Timer) Duration() time.Duration {
	return t.duration
}

// Start blocks for the timer's duration. If ctx is cancelled first the wait
// is abandoned and Interrupted is returned; the cancellation is not
// reported as an error.
func (t Timer) Start(ctx context.Context) Result {
	out := t.out
	if out == nil {
		out = console.Stdout()
	}

	out.Printf("Timer started for %s seconds.", formatSeconds(t.duration))
	t.publish("started")

	res := Sleep(ctx, t.duration)
	switch res {
	case Finished:
		out.Println("Timer finished.")
	case Interrupted:
		out.Println("Timer interrupted.")
		log.Debug().Str("device_id", t.owner).Dur("duration", t.duration).Msg("Timer interrupted")
	}
	t.publish(res.String())
	return res
}

func (t Timer) publish(phase string) {
	if t.bus == nil {
		return
	}
	t.bus.Publish(eventbus.Event{
		Type:     eventbus.EventTypeTimer,
		DeviceID: t.owner,
		Data:     map[string]any{"phase": phase, "duration": t.duration},
	})
}

// Sleep waits for d or until ctx is done, whichever comes first.
// An already cancelled context interrupts even a zero-length wait.
func Sleep(ctx context.Context, d time.Duration) Result {
	if ctx.Err() != nil {
		return Interrupted
	}
	if d <= 0 {
		return Finished
	}

	tm := time.NewTimer(d)
	defer tm.Stop()

	select {
	case <-tm.C:
		return Finished
	case <-ctx.Done():
		return Interrupted
	}
}

// formatSeconds renders 2s as "2" and 1500ms as "1.5".
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
