package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file is looked up when no -c flag is given.
const DefaultPath = "config.yaml"

// Config represents the application configuration
type Config struct {
	Log             LogConfig      `yaml:"log"`
	Room            RoomConfig     `yaml:"room"`
	Blinker         BlinkerConfig  `yaml:"blinker"`
	EventBus        EventBusConfig `yaml:"eventbus"`
	ShutdownTimeout Duration       `yaml:"shutdown_timeout"` // Time allowed to drain events on exit
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Colors bool   `yaml:"colors"`
	JSON   bool   `yaml:"json"`
}

// RoomConfig describes the room and the bulbs it references
type RoomConfig struct {
	Name  string       `yaml:"name"`
	Bulbs []BulbConfig `yaml:"bulbs"`
}

// BulbConfig describes one smart bulb
type BulbConfig struct {
	Name  string `yaml:"name"`
	Timer int    `yaml:"timer"` // Seconds the bulb stays on
}

// BlinkerConfig describes the independently running blinking bulb
type BlinkerConfig struct {
	Name          string   `yaml:"name"`
	Timer         int      `yaml:"timer"`           // Seconds; carried by the bulb but unused while blinking
	Cycles        int      `yaml:"cycles"`          // On/off cycles (default: 5)
	Interval      Duration `yaml:"interval"`        // Pause after each toggle (default: 500ms)
	StartWithRoom bool     `yaml:"start_with_room"` // Start blinking before the room instead of after it
}

// EventBusConfig contains event bus settings
type EventBusConfig struct {
	Workers   int `yaml:"workers"`    // Number of worker goroutines (default: 2)
	QueueSize int `yaml:"queue_size"` // Event queue size (default: 100)
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in scenario: two bulbs in the living room and
// a blinking bulb started after them.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Room.Name == "" {
		c.Room.Name = "Living Room"
	}
	if c.Room.Bulbs == nil {
		c.Room.Bulbs = []BulbConfig{
			{Name: "bulb1", Timer: 2},
			{Name: "bulb2", Timer: 3},
		}
	}
	for i := range c.Room.Bulbs {
		if c.Room.Bulbs[i].Name == "" {
			c.Room.Bulbs[i].Name = fmt.Sprintf("bulb%d", i+1)
		}
	}

	if c.Blinker.Name == "" {
		c.Blinker.Name = "blinker"
	}
	if c.Blinker.Timer == 0 {
		c.Blinker.Timer = 1
	}
	if c.Blinker.Cycles == 0 {
		c.Blinker.Cycles = 5
	}
	if c.Blinker.Interval == 0 {
		c.Blinker.Interval = Duration(500 * time.Millisecond)
	}

	if c.EventBus.Workers == 0 {
		c.EventBus.Workers = 2
	}
	if c.EventBus.QueueSize == 0 {
		c.EventBus.QueueSize = 100
	}

	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = Duration(5 * time.Second)
	}
}

// Validate reports settings that cannot produce a working scenario
func (c *Config) Validate() error {
	var errs []error
	for i, b := range c.Room.Bulbs {
		if b.Timer < 0 {
			errs = append(errs, fmt.Errorf("room.bulbs[%d] (%s): timer must not be negative, got %d", i, b.Name, b.Timer))
		}
	}
	if c.Blinker.Timer < 0 {
		errs = append(errs, fmt.Errorf("blinker.timer must not be negative, got %d", c.Blinker.Timer))
	}
	if c.Blinker.Cycles < 0 {
		errs = append(errs, fmt.Errorf("blinker.cycles must not be negative, got %d", c.Blinker.Cycles))
	}
	if c.Blinker.Interval < 0 {
		errs = append(errs, fmt.Errorf("blinker.interval must not be negative, got %s", c.Blinker.Interval.Duration()))
	}
	if c.EventBus.Workers < 0 || c.EventBus.QueueSize < 0 {
		errs = append(errs, errors.New("eventbus.workers and eventbus.queue_size must not be negative"))
	}
	return errors.Join(errs...)
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}

// ExpandEnvString expands a single string with environment variables
func ExpandEnvString(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return expandEnvVars(s)
	}
	return s
}
