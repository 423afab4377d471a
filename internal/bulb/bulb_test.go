package bulb

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dokzlo13/roomlights/internal/console"
	"github.com/dokzlo13/roomlights/internal/device"
	"github.com/dokzlo13/roomlights/internal/eventbus"
	"github.com/dokzlo13/roomlights/internal/timer"
)

type countingPublisher struct {
	mu     sync.Mutex
	states int
}

func (c *countingPublisher) Publish(e eventbus.Event) {
	if e.Type != eventbus.EventTypeState {
		return
	}
	c.mu.Lock()
	c.states++
	c.mu.Unlock()
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestNewSmart_RejectsNegativeDuration(t *testing.T) {
	_, err := NewSmart(-time.Second, device.WithOutput(console.Discard))
	if !errors.Is(err, timer.ErrNegativeDuration) {
		t.Fatalf("err = %v, want ErrNegativeDuration", err)
	}
}

func TestTurnOnWithTimer_Sequence(t *testing.T) {
	var buf bytes.Buffer
	b, err := NewSmart(20*time.Millisecond, device.WithOutput(console.New(&buf)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res := b.TurnOnWithTimer(context.Background()); res != timer.Finished {
		t.Errorf("result = %v, want finished", res)
	}
	if b.IsOn() {
		t.Error("bulb should be off after TurnOnWithTimer")
	}

	want := []string{
		"Light is turned ON.",
		"Timer started for 0.02 seconds.",
		"Timer finished.",
		"Light is turned OFF.",
	}
	got := lines(buf.String())
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTurnOnWithTimer_InterruptedEndsOff(t *testing.T) {
	var buf bytes.Buffer
	b, _ := NewSmart(10*time.Second, device.WithOutput(console.New(&buf)))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if res := b.TurnOnWithTimer(ctx); res != timer.Interrupted {
		t.Errorf("result = %v, want interrupted", res)
	}
	if b.IsOn() {
		t.Error("bulb should be off even when the timer is interrupted")
	}
	got := lines(buf.String())
	if got[len(got)-1] != "Light is turned OFF." || got[2] != "Timer interrupted." {
		t.Errorf("unexpected output %q", got)
	}
}

func TestBlinkingBulb_RunsAllCycles(t *testing.T) {
	var buf bytes.Buffer
	pub := &countingPublisher{}
	b, err := NewBlinking(time.Second, BlinkConfig{Interval: 5 * time.Millisecond},
		device.WithOutput(console.New(&buf)), device.WithPublisher(pub))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Now()
	res := b.Run(context.Background())

	if res.Interrupted {
		t.Error("run should not be interrupted")
	}
	if res.Completed != DefaultBlinkCycles {
		t.Errorf("completed = %d, want %d", res.Completed, DefaultBlinkCycles)
	}
	if b.IsOn() {
		t.Error("bulb should end off")
	}
	if pub.states != 2*DefaultBlinkCycles {
		t.Errorf("state transitions = %d, want %d", pub.states, 2*DefaultBlinkCycles)
	}
	if elapsed := time.Since(start); elapsed < 10*5*time.Millisecond {
		t.Errorf("run took %v, want at least 50ms", elapsed)
	}

	got := lines(buf.String())
	if len(got) != 12 {
		t.Fatalf("got %d lines, want 12: %q", len(got), got)
	}
	if got[0] != "Blinking started..." || got[11] != "Blinking ended." {
		t.Errorf("unexpected framing %q", got)
	}
	for i := 1; i < 11; i++ {
		want := "Light is turned ON."
		if i%2 == 0 {
			want = "Light is turned OFF."
		}
		if got[i] != want {
			t.Errorf("line %d = %q, want %q", i, got[i], want)
		}
	}
}

func TestBlinkingBulb_Interrupted(t *testing.T) {
	var buf bytes.Buffer
	b, _ := NewBlinking(time.Second, BlinkConfig{Cycles: 100, Interval: 10 * time.Millisecond},
		device.WithOutput(console.New(&buf)))

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	res := b.Run(ctx)
	if !res.Interrupted {
		t.Fatal("run should be interrupted")
	}
	if res.Completed >= 100 {
		t.Errorf("completed = %d, want fewer than 100", res.Completed)
	}

	got := lines(buf.String())
	if got[len(got)-1] != "Blinking interrupted." {
		t.Errorf("last line = %q, want %q", got[len(got)-1], "Blinking interrupted.")
	}
	if strings.Contains(buf.String(), "Blinking ended.") {
		t.Error("interrupted run should not report ended")
	}
}

func TestBlinkingBulb_KeepsTimer(t *testing.T) {
	b, _ := NewBlinking(time.Second, BlinkConfig{}, device.WithOutput(console.Discard))
	if b.TimerDuration() != time.Second {
		t.Errorf("TimerDuration() = %v, want 1s", b.TimerDuration())
	}
	if b.cycles != DefaultBlinkCycles || b.interval != DefaultBlinkInterval {
		t.Errorf("defaults = (%d, %v), want (%d, %v)", b.cycles, b.interval, DefaultBlinkCycles, DefaultBlinkInterval)
	}
}
