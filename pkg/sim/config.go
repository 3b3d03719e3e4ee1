package sim

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Period is the cycle of the simulation task.
const Period = 5 * time.Millisecond

// Config defines the physical parameters of the simulated robot.
type Config struct {
	// MMPerStep converts wheel steps to travelled distance.
	MMPerStep float64
	// WheelBase is the distance between the wheels in mm.
	WheelBase float64
	// Accel limits wheel speed change in steps/s², 0 means instant.
	Accel float64
	// TurnSpeed is the wheel speed of 180° turns in steps/s.
	TurnSpeed float64
	// SensorOffset is how far ahead of the axle the reflectance
	// array sits, SensorPitch the spacing of its sensors.
	SensorOffset float64
	SensorPitch  float64
	// BodyRadius is subtracted from time-of-flight distances.
	BodyRadius float64
	// Battery drain, in centivolts per 1000 wheel steps.
	BatteryFull  float64
	BatteryEmpty float64
	BatteryDrain float64
}

var defaultConfig = Config{
	MMPerStep:    0.1,
	WheelBase:    80,
	Accel:        20000,
	TurnSpeed:    800,
	SensorOffset: 30,
	SensorPitch:  8,
	BodyRadius:   45,
	BatteryFull:  840,
	BatteryEmpty: 600,
	BatteryDrain: 0.05,
}

func init() {
	if val, err := strconv.ParseFloat(os.Getenv("ROBO_SIM_BATTERY"), 64); err == nil {
		defaultConfig.BatteryFull = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.Accel, "sim-accel", defaultConfig.Accel, "Simulated wheel acceleration (steps/s^2), 0 means instant.")
	flag.Float64Var(&defaultConfig.TurnSpeed, "sim-turn-speed", defaultConfig.TurnSpeed, "Simulated wheel speed of 180 degree turns (steps/s).")
	flag.Float64Var(&defaultConfig.BatteryFull, "sim-battery", defaultConfig.BatteryFull, "Simulated initial battery voltage (centivolts).")
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
