package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linesumo/pkg/drive"
	fx "github.com/robotalks/linesumo/pkg/framework"
	"github.com/robotalks/linesumo/pkg/linefollow"
	"github.com/robotalks/linesumo/pkg/reflectance"
)

var epoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestRobot() (*Robot, *fx.Loop, *fx.ManualClock) {
	conf := NewConfig()
	conf.Accel = 0
	r := NewRobot(conf, &DefaultTrack)
	clock := fx.NewManualClock(epoch)
	loop := r.Task().WithClock(clock)
	loop.Step(context.Background())
	return r, loop, clock
}

func run(loop *fx.Loop, clock *fx.ManualClock, cycles int) {
	for n := 0; n < cycles; n++ {
		clock.Advance(Period)
		loop.Step(context.Background())
	}
}

func TestReadings(t *testing.T) {
	r := NewRobot(NewConfig(), &DefaultTrack)
	require.Equal(t, reflectance.ShapeStraight, r.LineShape())
	require.Equal(t, uint16(reflectance.MiddleLineValue), r.LinePosition())

	r.Place(Pose2D{Pos2D: Pos2D{Y: 6}})
	require.Equal(t, reflectance.ShapeStraight, r.LineShape())
	require.Greater(t, r.LinePosition(), uint16(reflectance.MiddleLineValue), "line is on the right")

	r.Place(Pose2D{Pos2D: Pos2D{Y: -6}})
	require.Less(t, r.LinePosition(), uint16(reflectance.MiddleLineValue), "line is on the left")

	r.Place(Pose2D{Pos2D: Pos2D{X: 1100}})
	require.Equal(t, reflectance.ShapeNone, r.LineShape())
	require.Zero(t, r.LinePosition())

	r.Place(Pose2D{Pos2D: Pos2D{X: -260}, Orientation: Angle(math.Pi)})
	require.Equal(t, reflectance.ShapeFull, r.LineShape())
}

func TestDriveStraight(t *testing.T) {
	r, loop, clock := newTestRobot()
	require.NoError(t, r.SetSpeed(1000, 1000))
	run(loop, clock, 10)
	require.Equal(t, Pos2D{}, r.Pose().Pos2D, "stopped until a mode is set")

	require.NoError(t, r.SetMode(drive.ModeNone))
	require.NoError(t, r.SetSpeed(1000, 1000))
	run(loop, clock, 100)
	pose := r.Pose()
	require.InDelta(t, 50, pose.X, 1e-6)
	require.InDelta(t, 0, pose.Y, 1e-6)
	l, rt := r.Encoders()
	require.Equal(t, int32(500), l)
	require.Equal(t, int32(500), rt)
	require.Less(t, r.BatteryCentiV(), uint16(840))

	require.NoError(t, r.SetMode(drive.ModeStop))
	run(loop, clock, 100)
	require.InDelta(t, 50, r.Pose().X, 1e-6)
}

func TestAcceleration(t *testing.T) {
	r, loop, clock := newTestRobot()
	r.Config.Accel = 10000
	require.NoError(t, r.SetMode(drive.ModeSpeed))
	require.NoError(t, r.SetSpeed(1000, 1000))
	run(loop, clock, 20)
	// speed ramps up by 50 steps/s per cycle.
	require.InDelta(t, 5.25, r.Pose().X, 1e-6)
}

func TestQuirks(t *testing.T) {
	r, loop, clock := newTestRobot()
	r.Quirks = drive.Quirks{InvertLeftMotor: true, SwapRightEncoder: true}

	require.NoError(t, r.SetMode(drive.ModeSpeed))
	require.NoError(t, r.SetSpeed(1000, 1000))
	run(loop, clock, 100)
	pose := r.Pose()
	require.InDelta(t, 0, pose.X, 1e-6, "spins in place without adjusting")
	require.InDelta(t, 1.25, pose.Orientation.Radians(), 1e-6)

	r, loop, clock = newTestRobot()
	r.Quirks = drive.Quirks{InvertLeftMotor: true, SwapRightEncoder: true}
	require.NoError(t, r.SetMode(drive.ModeSpeed))
	adjusted := drive.Adjust(r, r.Quirks)
	require.NoError(t, adjusted.SetSpeed(1000, 1000))
	run(loop, clock, 100)
	pose = r.Pose()
	require.InDelta(t, 50, pose.X, 1e-6)
	require.InDelta(t, 0, pose.Orientation.Radians(), 1e-6)

	l, rt := r.Encoders()
	require.Less(t, rt, int32(0))
	ls, rs := r.Quirks.EncoderSign()
	require.Greater(t, l*ls, int32(0))
	require.Greater(t, rt*rs, int32(0))
}

func TestTurn(t *testing.T) {
	r, loop, clock := newTestRobot()
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.Turn(context.Background(), drive.TurnLeft180)
	}()
	require.Eventually(t, r.Turning, time.Second, time.Millisecond)
	require.ErrorIs(t, r.Turn(context.Background(), drive.TurnRight180), ErrTurning)

	for n := 0; n < 1000 && r.Turning(); n++ {
		run(loop, clock, 1)
	}
	require.NoError(t, <-errCh)
	pose := r.Pose()
	require.InDelta(t, math.Pi, math.Abs(pose.Orientation.Radians()), 1e-9)
	require.InDelta(t, 0, pose.X, 1e-9)
	l, rt := r.Encoders()
	require.Less(t, l, int32(0))
	require.Greater(t, rt, int32(0))
}

func TestTurnCanceled(t *testing.T) {
	r, _, _ := newTestRobot()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.Turn(ctx, drive.TurnRight180)
	}()
	require.Eventually(t, r.Turning, time.Second, time.Millisecond)
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
	require.False(t, r.Turning())

	require.NoError(t, r.Turn(context.Background(), drive.TurnStop))
	require.Equal(t, drive.ModeStop, r.Mode())
}

func TestToF(t *testing.T) {
	r := NewRobot(NewConfig(), &DefaultTrack)
	require.Equal(t, [4]uint8{255, 255, 255, 255}, r.ToFValues())
	r.Place(Pose2D{Pos2D: Pos2D{X: 1100}})
	require.Equal(t, [4]uint8{55, 255, 255, 255}, r.ToFValues())
	r.Place(Pose2D{Pos2D: Pos2D{X: 1100, Y: 300}, Orientation: AngleFromDegrees(90)})
	require.Equal(t, [4]uint8{55, 55, 255, 255}, r.ToFValues())
}

type recorder struct {
	signals  []byte
	statuses []string
}

func (r *recorder) SendSignal(sig byte) error {
	r.signals = append(r.signals, sig)
	return nil
}

func (r *recorder) SendString(s string) error {
	r.statuses = append(r.statuses, s)
	return nil
}

func TestLineFollowLap(t *testing.T) {
	robot := NewRobot(NewConfig(), &DefaultTrack)
	clock := fx.NewManualClock(epoch)
	simLoop := robot.Task().WithClock(clock)
	rec := &recorder{}
	line := linefollow.New(linefollow.NewConfig(), robot, robot, robot)
	line.Lap, line.Status = rec, rec
	lineLoop := line.Task().WithClock(clock)
	ctx := context.Background()

	simLoop.Step(ctx)
	line.Start()
	started := false
	for n := 0; n < 6000; n++ {
		clock.Advance(Period)
		simLoop.Step(ctx)
		stepped := make(chan struct{})
		go func() {
			lineLoop.Step(ctx)
			close(stepped)
		}()
		for waiting := true; waiting; {
			select {
			case <-stepped:
				waiting = false
			case <-time.After(time.Millisecond):
				if robot.Turning() {
					clock.Advance(Period)
					simLoop.Step(ctx)
				}
			}
		}
		if line.IsRunning() {
			started = true
		} else if started {
			break
		}
	}

	require.Equal(t, linefollow.StateIdle, line.State())
	require.Equal(t, []byte{linefollow.SignalStart, linefollow.SignalStop}, rec.signals)
	require.Equal(t, []string{"Finished!", "Stopped!"}, rec.statuses)
	require.Equal(t, drive.ModeStop, robot.Mode())
	pose := robot.Pose()
	require.InDelta(t, math.Pi, math.Abs(pose.Orientation.Radians()), 1e-6)
	require.True(t, pose.X < -240 && pose.X > -290, "stopped on the marker at %v", pose.X)
}
