package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/roomlights/internal/bulb"
	"github.com/dokzlo13/roomlights/internal/config"
	"github.com/dokzlo13/roomlights/internal/console"
	"github.com/dokzlo13/roomlights/internal/timer"
)

// App runs the room sequence on the calling goroutine and the blinking
// bulb on a goroutine of its own.
type App struct {
	cfg      *config.Config
	services *Services
}

// Report is what a finished run produced.
type Report struct {
	Room  []timer.Result
	Blink bulb.BlinkResult
}

// New creates a new App with every bulb built but nothing running.
func New(cfg *config.Config, out *console.Printer) (*App, error) {
	services, err := NewServices(cfg, out)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		services: services,
	}, nil
}

// Services exposes the built components.
func (a *App) Services() *Services {
	return a.services
}

// Run controls the room and the blinker and returns once both are done.
// Cancelling ctx interrupts whatever timer or blink pause is in progress;
// the run still finishes normally.
func (a *App) Run(ctx context.Context) Report {
	var (
		report Report
		wg     sync.WaitGroup
	)

	startBlinker := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report.Blink = a.services.Blinker.Run(ctx)
			log.Info().
				Int("cycles", report.Blink.Completed).
				Bool("interrupted", report.Blink.Interrupted).
				Msg("Blinker finished")
		}()
	}

	if a.cfg.Blinker.StartWithRoom {
		startBlinker()
	}

	log.Info().Str("room", a.services.Room.Name()).Int("bulbs", len(a.services.Bulbs)).Msg("Controlling room")
	report.Room = a.services.Room.ControlAllLights(ctx)
	log.Info().Str("room", a.services.Room.Name()).Msg("Room done")

	if !a.cfg.Blinker.StartWithRoom {
		startBlinker()
	}

	// The blinker is not a background task: the run is over only when it is.
	wg.Wait()
	return report
}

// Stop drains pending events and logs the per-device summary.
func (a *App) Stop() {
	log.Info().Msg("Shutting down...")
	a.services.Close()
	a.services.Recorder.LogSummary()
}

// SignalContext creates a context that is cancelled when SIGINT or SIGTERM is received.
func SignalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Warn().Str("signal", sig.String()).Msg("Received interrupt, stopping lights")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
