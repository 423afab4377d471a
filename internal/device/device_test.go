package device

import (
	"bytes"
	"sync"
	"testing"

	"github.com/dokzlo13/roomlights/internal/console"
	"github.com/dokzlo13/roomlights/internal/eventbus"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (r *recordingPublisher) Publish(e eventbus.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func TestDevice_StartsOff(t *testing.T) {
	d := New(WithOutput(console.Discard))
	if d.IsOn() {
		t.Error("new device should be off")
	}
	if d.ID() == "" {
		t.Error("device should have an ID")
	}
}

func TestDevice_TurnOnOff(t *testing.T) {
	var buf bytes.Buffer
	d := New(WithOutput(console.New(&buf)), WithName("desk"))

	d.TurnOn()
	if !d.IsOn() {
		t.Error("device should be on after TurnOn")
	}
	d.TurnOn()
	if !d.IsOn() {
		t.Error("second TurnOn should keep device on")
	}
	d.TurnOff()
	if d.IsOn() {
		t.Error("device should be off after TurnOff")
	}
	d.TurnOff()

	want := "Light is turned ON.\nLight is turned ON.\nLight is turned OFF.\nLight is turned OFF.\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if d.Name() != "desk" {
		t.Errorf("Name() = %q, want %q", d.Name(), "desk")
	}
}

func TestDevice_PublishesStateEvents(t *testing.T) {
	pub := &recordingPublisher{}
	d := New(WithOutput(console.Discard), WithPublisher(pub))

	d.TurnOn()
	d.TurnOn()
	d.TurnOff()

	if len(pub.events) != 3 {
		t.Fatalf("got %d events, want 3", len(pub.events))
	}
	wantChanged := []bool{true, false, true}
	for i, e := range pub.events {
		if e.Type != eventbus.EventTypeState {
			t.Errorf("event %d type = %q, want %q", i, e.Type, eventbus.EventTypeState)
		}
		if e.DeviceID != d.ID() {
			t.Errorf("event %d device = %q, want %q", i, e.DeviceID, d.ID())
		}
		if e.Data["changed"] != wantChanged[i] {
			t.Errorf("event %d changed = %v, want %v", i, e.Data["changed"], wantChanged[i])
		}
	}
}

func TestDevice_SatisfiesSwitchable(t *testing.T) {
	var s Switchable = New(WithOutput(console.Discard))
	s.TurnOn()
	if !s.IsOn() {
		t.Error("Switchable should report on")
	}
}
