package app

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/roomlights/internal/eventbus"
)

// DeviceStats counts what happened to a single device during a run.
type DeviceStats struct {
	Name        string
	Transitions int // state events that actually changed on/off
	Toggles     int // all turn on/off calls, including repeats
	Timers      map[string]int
	Blinks      map[string]int
}

// Recorder subscribes to the event bus and keeps per-device counters.
type Recorder struct {
	mu    sync.Mutex
	names map[string]string
	stats map[string]*DeviceStats
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		names: make(map[string]string),
		stats: make(map[string]*DeviceStats),
	}
}

// Attach subscribes the recorder to every device event type.
func (r *Recorder) Attach(bus *eventbus.Bus) {
	bus.Subscribe(eventbus.EventTypeState, r.Handle)
	bus.Subscribe(eventbus.EventTypeTimer, r.Handle)
	bus.Subscribe(eventbus.EventTypeBlink, r.Handle)
}

// Name associates a readable name with a device ID.
func (r *Recorder) Name(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[id] = name
}

// Handle records one event.
func (r *Recorder) Handle(e eventbus.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.statsLocked(e.DeviceID)
	switch e.Type {
	case eventbus.EventTypeState:
		st.Toggles++
		if changed, _ := e.Data["changed"].(bool); changed {
			st.Transitions++
		}
	case eventbus.EventTypeTimer:
		if phase, ok := e.Data["phase"].(string); ok {
			st.Timers[phase]++
		}
	case eventbus.EventTypeBlink:
		if phase, ok := e.Data["phase"].(string); ok {
			st.Blinks[phase]++
		}
	}

	log.Debug().
		Str("event_type", string(e.Type)).
		Str("device", st.Name).
		Interface("data", e.Data).
		Msg("Device event")
}

func (r *Recorder) statsLocked(id string) *DeviceStats {
	st, ok := r.stats[id]
	if !ok {
		st = &DeviceStats{
			Name:   r.names[id],
			Timers: make(map[string]int),
			Blinks: make(map[string]int),
		}
		r.stats[id] = st
	}
	return st
}

// Stats returns a copy of the counters for a device.
func (r *Recorder) Stats(id string) (DeviceStats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stats[id]
	if !ok {
		return DeviceStats{}, false
	}
	cp := *st
	cp.Timers = make(map[string]int, len(st.Timers))
	for k, v := range st.Timers {
		cp.Timers[k] = v
	}
	cp.Blinks = make(map[string]int, len(st.Blinks))
	for k, v := range st.Blinks {
		cp.Blinks[k] = v
	}
	return cp, true
}

// LogSummary writes one info line per device, sorted by name.
func (r *Recorder) LogSummary() {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.stats))
	for id := range r.stats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return r.stats[ids[i]].Name < r.stats[ids[j]].Name
	})

	for _, id := range ids {
		st := r.stats[id]
		log.Info().
			Str("device", st.Name).
			Str("device_id", id).
			Int("transitions", st.Transitions).
			Int("toggles", st.Toggles).
			Interface("timers", st.Timers).
			Interface("blinks", st.Blinks).
			Msg("Device summary")
	}
}
