package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/roomlights/internal/app"
	"github.com/dokzlo13/roomlights/internal/config"
	"github.com/dokzlo13/roomlights/internal/console"
)

func main() {
	// Support both -c and --config for config path
	var configPath string
	flag.StringVar(&configPath, "config", config.DefaultPath, "Path to configuration file")
	flag.StringVar(&configPath, "c", config.DefaultPath, "Path to configuration file (shorthand)")
	flag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", configPath).Msg("Failed to load configuration")
	}

	setupLogging(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Colors)

	log.Debug().Str("config", configPath).Msg("Starting roomlights")

	application, err := app.New(cfg, console.Stdout())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	// SIGINT/SIGTERM interrupt running timers and blinking
	ctx, cancel := app.SignalContext()
	defer cancel()

	application.Run(ctx)
	application.Stop()
}

// loadConfig reads the config file. Without an explicit -c flag a missing
// file means the built-in scenario.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !flagPassed("config", "c") {
		return config.Default(), nil
	}
	return nil, err
}

func flagPassed(names ...string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		for _, n := range names {
			if f.Name == n {
				found = true
			}
		}
	})
	return found
}

func setupLogging(level string, useJSON bool, colors bool) {
	// ISO 8601 format with timezone
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		// JSON output for production
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Text output (with optional colors)
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
