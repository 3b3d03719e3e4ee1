package radio

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config provides node addressing.
type Config struct {
	NodeAddr       Addr
	DestAddr       Addr
	TimeSystemAddr Addr
}

var defaultConfig = Config{
	NodeAddr:       AddrBroadcast,
	DestAddr:       AddrBroadcast,
	TimeSystemAddr: AddrBroadcast,
}

func init() {
	envAddr("ROBO_RADIO_ADDR", &defaultConfig.NodeAddr)
	envAddr("ROBO_RADIO_DEST", &defaultConfig.DestAddr)
	envAddr("ROBO_RADIO_TIME_SYSTEM", &defaultConfig.TimeSystemAddr)
}

func envAddr(name string, addr *Addr) {
	if val := os.Getenv(name); val != "" {
		if a, err := ParseAddr(val); err == nil {
			*addr = a
		}
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.Var((*addrValue)(&defaultConfig.NodeAddr), "radio-addr", "Own node address (hex).")
	flag.Var((*addrValue)(&defaultConfig.DestAddr), "radio-dest", "Destination node address (hex).")
	flag.Var((*addrValue)(&defaultConfig.TimeSystemAddr), "radio-time-system", "Time keeping node address (hex).")
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

// ParseAddr parses a hex node address, with or without 0x prefix.
func ParseAddr(s string) (Addr, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	val, err := strconv.ParseUint(digits, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return Addr(val), nil
}

type addrValue Addr

func (v *addrValue) String() string {
	return Addr(*v).String()
}

func (v *addrValue) Set(s string) error {
	a, err := ParseAddr(s)
	if err == nil {
		*v = addrValue(a)
	}
	return err
}
