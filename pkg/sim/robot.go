// Package sim simulates a differential drive robot on a line track so
// the behaviors run without hardware.
package sim

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/linesumo/pkg/drive"
	fx "github.com/robotalks/linesumo/pkg/framework"
	"github.com/robotalks/linesumo/pkg/reflectance"
)

// ErrTurning is returned when a turn is requested during another.
var ErrTurning = errors.New("already turning")

// Robot is the simulated body. It implements drive.Drive, drive.Turner
// and reflectance.Sensor and reports battery and time-of-flight values.
//
// Quirks model the wiring of the simulated unit: an inverted motor
// turns backwards and a swapped encoder counts backwards, so the robot
// only drives straight through a drive.Adjust with the same quirks.
type Robot struct {
	Config Config
	Track  *Track
	Quirks drive.Quirks

	lock     sync.Mutex
	pose     Pose2D
	mode     drive.Mode
	target   [2]float64
	speed    [2]float64
	encoders [2]float64
	battery  float64
	turn     *turnState
	last     time.Time
}

type turnState struct {
	start  Angle
	dir    float64
	turned float64
	done   chan struct{}
}

// NewRobot creates a Robot on track at the origin.
func NewRobot(conf *Config, track *Track) *Robot {
	return &Robot{
		Config:  *conf,
		Track:   track,
		mode:    drive.ModeStop,
		battery: conf.BatteryFull,
	}
}

// Name implements Named.
func (r *Robot) Name() string {
	return "sim"
}

// Pose returns the current pose.
func (r *Robot) Pose() Pose2D {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.pose
}

// Place moves the robot to pose and stops it.
func (r *Robot) Place(pose Pose2D) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.pose = pose
	r.target, r.speed = [2]float64{}, [2]float64{}
}

// SetSpeed implements drive.Drive. Speeds are in steps/s.
func (r *Robot) SetSpeed(left, right int32) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.target[0], r.target[1] = float64(left), float64(right)
	if r.Quirks.InvertLeftMotor {
		r.target[0] = -r.target[0]
	}
	if r.Quirks.InvertRightMotor {
		r.target[1] = -r.target[1]
	}
	return nil
}

// SetMode implements drive.Drive. ModeStop brakes both wheels and
// drops the speed targets.
func (r *Robot) SetMode(mode drive.Mode) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.mode = mode
	if mode == drive.ModeStop {
		r.target, r.speed = [2]float64{}, [2]float64{}
	}
	return nil
}

// Mode returns the current drive mode.
func (r *Robot) Mode() drive.Mode {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.mode
}

// Turn implements drive.Turner. It spins in place and blocks until the
// simulation completed half a revolution.
func (r *Robot) Turn(ctx context.Context, kind drive.TurnKind) error {
	r.lock.Lock()
	if kind == drive.TurnStop {
		r.cancelTurn()
		r.mode = drive.ModeStop
		r.lock.Unlock()
		return nil
	}
	if r.turn != nil {
		r.lock.Unlock()
		return ErrTurning
	}
	t := &turnState{start: r.pose.Orientation, dir: 1, done: make(chan struct{})}
	if kind == drive.TurnRight180 {
		t.dir = -1
	}
	r.turn = t
	r.lock.Unlock()

	glog.V(4).Infof("sim: turn %s from %.1f°", kind, t.start.Degrees())
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		r.lock.Lock()
		if r.turn == t {
			r.cancelTurn()
		}
		r.lock.Unlock()
		return ctx.Err()
	}
}

// Turning tells whether a turn is in progress.
func (r *Robot) Turning() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.turn != nil
}

func (r *Robot) cancelTurn() {
	r.turn = nil
	r.target, r.speed = [2]float64{}, [2]float64{}
}

// Encoders returns the raw wheel step counters, sign flipped on a
// swapped encoder.
func (r *Robot) Encoders() (left, right int32) {
	r.lock.Lock()
	defer r.lock.Unlock()
	ls, rs := r.Quirks.EncoderSign()
	return ls * int32(r.encoders[0]), rs * int32(r.encoders[1])
}

// Readings samples the reflectance array, sensor 0 is the leftmost.
func (r *Robot) Readings() reflectance.Readings {
	r.lock.Lock()
	pose := r.pose
	r.lock.Unlock()
	var rd reflectance.Readings
	center := pose.Pos2D.Add(pose.Orientation.Project(r.Config.SensorOffset))
	toRight := pose.Orientation.AddRadians(-math.Pi / 2)
	for n := range rd {
		lateral := (float64(n) - float64(reflectance.NumSensors-1)/2) * r.Config.SensorPitch
		rd[n] = r.Track.Reflect(center.Add(toRight.Project(lateral)))
	}
	return rd
}

// LinePosition implements reflectance.Sensor.
func (r *Robot) LinePosition() uint16 {
	return r.Readings().Position()
}

// LineShape implements reflectance.Sensor.
func (r *Robot) LineShape() reflectance.Shape {
	return r.Readings().Shape()
}

// BatteryCentiV reports the battery voltage in 10 mV units.
func (r *Robot) BatteryCentiV() uint16 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return uint16(math.Max(r.battery, 0))
}

// ToFValues reports the distances to the arena walls in mm, front,
// right, rear and left, saturated at 255.
func (r *Robot) ToFValues() [4]uint8 {
	pose := r.Pose()
	var vals [4]uint8
	for n := range vals {
		dir := pose.Orientation.AddRadians(-float64(n) * math.Pi / 2)
		d := r.Track.Arena.RayDistance(pose.Pos2D, dir) - r.Config.BodyRadius
		vals[n] = uint8(math.Min(math.Max(d, 0), 255))
	}
	return vals
}

// AddToLoop implements LoopAdder.
func (r *Robot) AddToLoop(loop *fx.Loop) {
	loop.AddController(r)
}

// Task creates the periodic task running the simulation.
func (r *Robot) Task() *fx.Loop {
	return fx.NewLoop(r.Name(), Period).Add(r)
}

// Control implements Controller, advancing the simulation to the
// cycle time.
func (r *Robot) Control(cc fx.ControlContext) error {
	now := cc.Time()
	r.lock.Lock()
	defer r.lock.Unlock()
	last := r.last
	r.last = now
	if last.IsZero() || !now.After(last) {
		return nil
	}
	secs := now.Sub(last).Seconds()
	if r.turn != nil {
		r.stepTurn(secs)
		return nil
	}
	r.stepDrive(secs)
	return nil
}

func (r *Robot) stepTurn(secs float64) {
	t := r.turn
	omega := 2 * r.Config.TurnSpeed * r.Config.MMPerStep / r.Config.WheelBase
	delta := omega * secs
	if t.turned+delta >= math.Pi {
		delta = math.Pi - t.turned
		r.pose.Orientation = t.start.AddRadians(t.dir * math.Pi)
		r.turn = nil
		r.target, r.speed = [2]float64{}, [2]float64{}
		close(t.done)
	} else {
		t.turned += delta
		r.pose.Orientation = r.pose.Orientation.AddRadians(t.dir * delta)
	}
	steps := delta * r.Config.WheelBase / 2 / r.Config.MMPerStep
	r.encoders[0] -= t.dir * steps
	r.encoders[1] += t.dir * steps
	r.drain(2 * steps)
}

func (r *Robot) stepDrive(secs float64) {
	if r.mode == drive.ModeStop {
		return
	}
	for n := range r.speed {
		r.speed[n] = approach(r.speed[n], r.target[n], r.Config.Accel*secs)
	}
	left, right := r.speed[0]*secs, r.speed[1]*secs
	r.encoders[0] += left
	r.encoders[1] += right
	r.drain(math.Abs(left) + math.Abs(right))

	dist := (left + right) / 2 * r.Config.MMPerStep
	rot := (right - left) * r.Config.MMPerStep / r.Config.WheelBase
	mid := r.pose.Orientation.AddRadians(rot / 2)
	r.pose.Pos2D.OffsetBy(mid.Project(dist))
	r.pose.Orientation = r.pose.Orientation.AddRadians(rot)
}

func (r *Robot) drain(steps float64) {
	r.battery -= steps * r.Config.BatteryDrain / 1000
	if r.battery < r.Config.BatteryEmpty {
		r.battery = r.Config.BatteryEmpty
	}
}

// approach moves v towards target by at most maxDelta, or jumps to it
// if maxDelta is 0.
func approach(v, target, maxDelta float64) float64 {
	if maxDelta <= 0 {
		return target
	}
	if d := target - v; math.Abs(d) <= maxDelta {
		return target
	} else if d > 0 {
		return v + maxDelta
	}
	return v - maxDelta
}
