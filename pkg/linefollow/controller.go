// Package linefollow implements the line following behavior.
package linefollow

import (
	"context"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/linesumo/pkg/drive"
	fx "github.com/robotalks/linesumo/pkg/framework"
	"github.com/robotalks/linesumo/pkg/notify"
	"github.com/robotalks/linesumo/pkg/reflectance"
)

// State of the line follower.
type State int32

// States.
const (
	StateIdle State = iota
	StateFollowSegment
	StateTurn
	StateFinished
	StateStop
)

var stateNames = [...]string{"IDLE", "FOLLOW_SEGMENT", "TURN", "FINISHED", "STOP"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "UNKNOWN"
}

// Notification bits.
const (
	RequestStart notify.Bits = 1 << iota
	RequestStop
)

// LapSignaler sends lap signals to the time keeping node.
type LapSignaler interface {
	SendSignal(sig byte) error
}

// StatusSink receives status text.
type StatusSink interface {
	SendString(s string) error
}

// Controller is the line follower. Control must only be called
// from the owning task, everything else is safe from any goroutine.
type Controller struct {
	Sensor reflectance.Sensor
	Drive  drive.Drive
	Turner drive.Turner
	Lap    LapSignaler
	Status StatusSink

	notify *notify.Channel
	state  atomic.Int32
	pid    PID
}

// New creates a Controller.
func New(conf *Config, sensor reflectance.Sensor, drv drive.Drive, turner drive.Turner) *Controller {
	return &Controller{
		Sensor: sensor,
		Drive:  drv,
		Turner: turner,
		notify: notify.New(),
		pid:    PID{Gains: conf.Gains},
	}
}

// Name implements Named.
func (c *Controller) Name() string {
	return "line"
}

// Start requests line following.
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

// IsRunning reports whether the follower left Idle.
func (c *Controller) IsRunning() bool {
	return c.State() != StateIdle
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

// Task creates the periodic task running the follower.
func (c *Controller) Task() *fx.Loop {
	return fx.NewLoop(c.Name(), Period).Add(c)
}

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	ctx := cc.Context()
	bits := c.notify.Consume()
	if bits.Has(RequestStart) && c.State() == StateIdle {
		c.signal(SignalStart)
		if err := c.Drive.SetMode(drive.ModeNone); err != nil {
			glog.Warningf("line: set mode: %v", err)
		}
		c.pid.Reset()
		c.setState(StateFollowSegment)
	}
	if bits.Has(RequestStop) && c.State() != StateIdle {
		c.setState(StateStop)
	}
	return c.step(ctx)
}

func (c *Controller) step(ctx context.Context) error {
	switch c.State() {
	case StateFollowSegment:
		if !c.followSegment() {
			c.setState(StateTurn)
		}
	case StateTurn:
		switch c.Sensor.LineShape() {
		case reflectance.ShapeFull:
			c.setState(StateFinished)
		case reflectance.ShapeNone:
			if err := c.Turner.Turn(ctx, drive.TurnLeft180); err != nil {
				c.setState(StateStop)
				return err
			}
			if err := c.Drive.SetMode(drive.ModeNone); err != nil {
				glog.Warningf("line: set mode: %v", err)
			}
			c.setState(StateFollowSegment)
		default:
			c.setState(StateStop)
		}
	case StateFinished:
		c.status("Finished!")
		c.setState(StateStop)
	case StateStop:
		c.signal(SignalStop)
		c.status("Stopped!")
		c.setState(StateIdle)
		return c.Drive.SetMode(drive.ModeStop)
	}
	return nil
}

func (c *Controller) followSegment() bool {
	pos, shape := c.Sensor.LinePosition(), c.Sensor.LineShape()
	if shape != reflectance.ShapeStraight {
		return false
	}
	left, right := c.pid.Line(pos, reflectance.MiddleLineValue)
	if err := c.Drive.SetSpeed(left, right); err != nil {
		glog.Warningf("line: set speed: %v", err)
	}
	return true
}

func (c *Controller) setState(s State) {
	if old := State(c.state.Swap(int32(s))); old != s {
		glog.V(2).Infof("line: %s -> %s", old, s)
	}
}

func (c *Controller) signal(sig byte) {
	if c.Lap == nil {
		return
	}
	if err := c.Lap.SendSignal(sig); err != nil {
		glog.Warningf("line: lap signal %q: %v", sig, err)
	}
}

func (c *Controller) status(s string) {
	if c.Status == nil {
		return
	}
	if err := c.Status.SendString(s); err != nil {
		glog.Warningf("line: status %q: %v", s, err)
	}
}
