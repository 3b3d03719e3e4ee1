package linefollow

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Period is the cycle of the line following task.
const Period = 5 * time.Millisecond

// Lap signals sent to the time keeping node.
const (
	SignalStart byte = 'B'
	SignalStop  byte = 'C'
)

// Config provides the steering parameters.
type Config struct {
	Gains Gains
}

var defaultConfig = Config{
	Gains: Gains{
		P:           0.5,
		I:           0.001,
		D:           2,
		BaseSpeed:   1500,
		MaxSpeed:    3000,
		IntegralMax: 200000,
	},
}

func init() {
	if val, err := strconv.ParseInt(os.Getenv("ROBO_LINE_SPEED"), 10, 32); err == nil {
		defaultConfig.Gains.BaseSpeed = int32(val)
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.Gains.P, "line-kp", defaultConfig.Gains.P, "Line following proportional gain.")
	flag.Float64Var(&defaultConfig.Gains.I, "line-ki", defaultConfig.Gains.I, "Line following integral gain.")
	flag.Float64Var(&defaultConfig.Gains.D, "line-kd", defaultConfig.Gains.D, "Line following derivative gain.")
	flag.Func("line-speed", "Line following base speed (steps/s).", func(s string) error {
		val, err := strconv.ParseInt(s, 10, 32)
		if err == nil {
			defaultConfig.Gains.BaseSpeed = int32(val)
		}
		return err
	})
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}
