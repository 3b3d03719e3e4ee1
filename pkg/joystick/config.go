package joystick

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config defines the joystick input options.
type Config struct {
	// DeviceIndex selects /dev/input/js<N>, -1 detects, -2 disables.
	DeviceIndex int
	// LongPress is how long a button is held for a long press.
	LongPress time.Duration
	// Threshold is the axis deflection producing a key.
	Threshold int
}

// Disabled is the DeviceIndex turning the input off.
const Disabled = -2

var defaultConfig = Config{
	DeviceIndex: Disabled,
	LongPress:   time.Second,
	Threshold:   16000,
}

func init() {
	if val, err := strconv.Atoi(os.Getenv("ROBO_JOYSTICK")); err == nil {
		defaultConfig.DeviceIndex = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.DeviceIndex, "joystick", defaultConfig.DeviceIndex, "Joystick device index, -1 for auto detection, -2 disables.")
	flag.DurationVar(&defaultConfig.LongPress, "long-press", defaultConfig.LongPress, "Button hold time of a long press.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewInput creates the Input, nil if disabled.
func (c *Config) NewInput(buttons Buttons, keys KeyPresser) *Input {
	if c.DeviceIndex == Disabled {
		return nil
	}
	in := NewInput(buttons, keys)
	in.DeviceIndex, in.LongPress, in.Threshold = c.DeviceIndex, c.LongPress, c.Threshold
	return in
}
