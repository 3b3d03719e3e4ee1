// Package env provides the options shared by all binaries: who this
// unit is, where the radio link goes and where metrics are served.
package env

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robotalks/linesumo/pkg/drive"
	"github.com/robotalks/linesumo/pkg/metrics"
	"github.com/robotalks/linesumo/pkg/radio/link"
	"github.com/robotalks/linesumo/pkg/unit"
)

// Config provides common options.
type Config struct {
	// UnitID identifies the physical unit, the machine id by default.
	UnitID string
	// UnitTable is the YAML unit table, the built-in table if empty.
	UnitTable string
	// RadioURL is the packet link, see link.Open.
	RadioURL string
	// MetricsAddr serves /metrics if not empty.
	MetricsAddr string
}

var defaultConfig = Config{
	RadioURL: "air://",
}

func init() {
	defaultConfig.UnitID = MachineID()
	if val := os.Getenv("ROBO_UNIT_ID"); val != "" {
		defaultConfig.UnitID = val
	}
	if val := os.Getenv("ROBO_UNIT_TABLE"); val != "" {
		defaultConfig.UnitTable = val
	}
	if val := os.Getenv("ROBO_RADIO_URL"); val != "" {
		defaultConfig.RadioURL = val
	}
	if val := os.Getenv("ROBO_METRICS_ADDR"); val != "" {
		defaultConfig.MetricsAddr = val
	}
}

// MachineID retrieves the unique ID of the machine, empty if unknown.
func MachineID() string {
	id, err := machineid.ID()
	if err != nil {
		glog.Warningf("machine id: %v", err)
		return ""
	}
	return id
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.UnitID, "unit", defaultConfig.UnitID, "Unit ID")
	flag.StringVar(&defaultConfig.UnitTable, "unit-table", defaultConfig.UnitTable, "Unit table YAML file")
	flag.StringVar(&defaultConfig.RadioURL, "radio", defaultConfig.RadioURL, "Radio link URL (air://, serial://, tcp://, ws://, mqtt://)")
	flag.StringVar(&defaultConfig.MetricsAddr, "metrics", defaultConfig.MetricsAddr, "Serve metrics on address")
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

// Units loads the unit table.
func (c *Config) Units() (*unit.Table, error) {
	if c.UnitTable == "" {
		return &unit.Builtin, nil
	}
	return unit.Load(c.UnitTable)
}

// Quirks looks up the quirks of this unit.
func (c *Config) Quirks() (drive.Quirks, error) {
	table, err := c.Units()
	if err != nil {
		return drive.Quirks{}, err
	}
	u, ok := table.Lookup(c.UnitID)
	if !ok {
		glog.Infof("unit %q not in table, no quirks", c.UnitID)
		return drive.Quirks{}, nil
	}
	glog.Infof("unit %s: %+v", u.Name, u.Quirks)
	return u.Quirks, nil
}

// OpenLink opens the radio link and creates the stack over it.
func (c *Config) OpenLink() (*link.Stack, error) {
	rw, err := link.Open(c.RadioURL)
	if err != nil {
		return nil, fmt.Errorf("open radio %q: %w", c.RadioURL, err)
	}
	return link.NewStack(rw), nil
}

// MustOpenLink opens the link and fails on error.
func (c *Config) MustOpenLink() *link.Stack {
	s, err := c.OpenLink()
	if err != nil {
		log.Fatalln(err)
	}
	return s
}

// Exporter creates the metrics exporter, nil if disabled.
func (c *Config) Exporter() *metrics.Exporter {
	if c.MetricsAddr == "" {
		return nil
	}
	return metrics.NewExporter(c.MetricsAddr)
}
