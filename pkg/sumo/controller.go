// Package sumo implements the sumo driving behavior.
package sumo

import (
	"flag"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/linesumo/pkg/drive"
	fx "github.com/robotalks/linesumo/pkg/framework"
	"github.com/robotalks/linesumo/pkg/notify"
)

// Period is the cycle of the sumo task.
const Period = 10 * time.Millisecond

// State of the sumo controller.
type State int32

// States.
const (
	StateIdle State = iota
	StateStartDriving
	StateDriving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateStartDriving:
		return "START_DRIVING"
	case StateDriving:
		return "DRIVING"
	}
	return "UNKNOWN"
}

// Notification bits.
const (
	RequestStart notify.Bits = 1 << iota
	RequestStop
)

// Config provides sumo parameters.
type Config struct {
	// Speed is the forward speed of both wheels in steps/s.
	Speed int32
}

var defaultConfig = Config{Speed: 1000}

func init() {
	if val, err := strconv.ParseInt(os.Getenv("ROBO_SUMO_SPEED"), 10, 32); err == nil {
		defaultConfig.Speed = int32(val)
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.Func("sumo-speed", "Sumo forward speed (steps/s).", func(s string) error {
		val, err := strconv.ParseInt(s, 10, 32)
		if err == nil {
			defaultConfig.Speed = int32(val)
		}
		return err
	})
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Reporter is told whenever IsRunning changes.
type Reporter interface {
	ReportRunning(running bool) error
}

// Controller drives forward at a fixed speed until stopped.
type Controller struct {
	Config   Config
	Drive    drive.Drive
	Reporter Reporter

	notify *notify.Channel
	state  atomic.Int32
}

// New creates a Controller.
func New(conf *Config, drv drive.Drive) *Controller {
	return &Controller{Config: *conf, Drive: drv, notify: notify.New()}
}

// Name implements Named.
func (c *Controller) Name() string {
	return "sumo"
}

// Start requests sumo driving.
func (c *Controller) Start() {
	c.notify.Notify(RequestStart)
}

// Stop requests stopping.
func (c *Controller) Stop() {
	c.notify.Notify(RequestStop)
}

// Toggle starts or stops depending on IsRunning.
func (c *Controller) Toggle() {
	if c.IsRunning() {
		c.Stop()
	} else {
		c.Start()
	}
}

// IsRunning reports whether the robot is driving.
func (c *Controller) IsRunning() bool {
	return c.State() == StateDriving
}

// State returns the current state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// StateName returns the state for status rendering.
func (c *Controller) StateName() string {
	return c.State().String()
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddController(c)
}

// Task creates the periodic task running the controller.
func (c *Controller) Task() *fx.Loop {
	return fx.NewLoop(c.Name(), Period).Add(c)
}

// Control implements Controller. It keeps transitioning until a
// state has nothing more to do in this cycle.
func (c *Controller) Control(fx.ControlContext) error {
	bits := c.notify.Consume()
	wasRunning := c.IsRunning()
	defer func() {
		if running := c.IsRunning(); running != wasRunning {
			c.report(running)
		}
	}()
	for {
		switch c.State() {
		case StateIdle:
			if !bits.Has(RequestStart) {
				return nil
			}
			bits &^= RequestStart
			c.setState(StateStartDriving)
		case StateStartDriving:
			if err := c.Drive.SetSpeed(c.Config.Speed, c.Config.Speed); err != nil {
				c.setState(StateIdle)
				return err
			}
			if err := c.Drive.SetMode(drive.ModeSpeed); err != nil {
				c.setState(StateIdle)
				return err
			}
			c.setState(StateDriving)
		case StateDriving:
			if !bits.Has(RequestStop) {
				return nil
			}
			bits &^= RequestStop
			c.setState(StateIdle)
			if err := c.Drive.SetMode(drive.ModeStop); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (c *Controller) setState(s State) {
	if old := State(c.state.Swap(int32(s))); old != s {
		glog.V(2).Infof("sumo: %s -> %s", old, s)
	}
}

func (c *Controller) report(running bool) {
	if c.Reporter == nil {
		return
	}
	if err := c.Reporter.ReportRunning(running); err != nil {
		glog.Warningf("sumo: report running=%v: %v", running, err)
	}
}
