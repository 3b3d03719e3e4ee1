// Package joystick turns a USB joystick into the switches of the
// board: buttons become SW1..SW7 events and the stick navigates the
// remote menu.
package joystick

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/linesumo/pkg/bridge"
	fx "github.com/robotalks/linesumo/pkg/framework"
	"github.com/robotalks/linesumo/pkg/joystick/device"
)

// Buttons receives button events.
type Buttons interface {
	HandleButton(ev bridge.ButtonEvent)
}

// KeyPresser receives menu navigation keys.
type KeyPresser interface {
	Press(key string) error
}

// Input reads the joystick and forwards its events. It reopens the
// device when it goes away.
type Input struct {
	DeviceIndex int
	LongPress   time.Duration
	Threshold   int
	Clock       fx.Clock
	Buttons     Buttons
	Keys        KeyPresser
	// Open overrides how the device is opened.
	Open func(index int) (device.Device, error)

	pressedAt map[int]time.Time
	// deflected axes wait for the stick to come back first
	deflected map[int]bool
}

// NewInput creates an Input. Either buttons or keys may be nil.
func NewInput(buttons Buttons, keys KeyPresser) *Input {
	return &Input{
		DeviceIndex: -1,
		LongPress:   defaultConfig.LongPress,
		Threshold:   defaultConfig.Threshold,
		Clock:       fx.SystemClock,
		Buttons:     buttons,
		Keys:        keys,
		pressedAt:   make(map[int]time.Time),
		deflected:   make(map[int]bool),
	}
}

// Name implements Named.
func (in *Input) Name() string {
	return "joystick"
}

// Run implements Runnable.
func (in *Input) Run(ctx context.Context) error {
	for {
		dev, err := in.open()
		if err != nil {
			glog.V(2).Infof("joystick: open: %v", err)
		} else {
			glog.Infof("joystick %d %q opened", dev.Index(), dev.Name())
			err = fx.RunWithContextCloser(ctx, dev, func() error {
				for {
					ev, err := dev.ReadEvent()
					if err != nil {
						return err
					}
					in.HandleEvent(ev)
				}
			})
			glog.Warningf("joystick: %v", err)
		}
		if err := in.Clock.Sleep(ctx, time.Second); err != nil {
			return err
		}
	}
}

func (in *Input) open() (device.Device, error) {
	if in.Open != nil {
		return in.Open(in.DeviceIndex)
	}
	if in.DeviceIndex < 0 {
		return device.Detect()
	}
	return device.Open(in.DeviceIndex)
}

// HandleEvent translates one device event. Button N is reported as
// SW<N+1>: a short press on release, a long press when held longer
// than LongPress, followed by the release.
func (in *Input) HandleEvent(ev device.Event) {
	if ev.IsInit() {
		return
	}
	switch e := ev.(type) {
	case device.ButtonEvent:
		in.button(e)
	case device.AxisEvent:
		in.axis(e)
	}
}

func (in *Input) button(e device.ButtonEvent) {
	now := in.Clock.Now()
	if e.Pressed() {
		in.pressedAt[e.Index()] = now
		return
	}
	at, ok := in.pressedAt[e.Index()]
	if !ok || in.Buttons == nil {
		return
	}
	delete(in.pressedAt, e.Index())
	sw := e.Index() + 1
	action := bridge.Pressed
	if now.Sub(at) >= in.LongPress {
		action = bridge.LongPressed
	}
	in.Buttons.HandleButton(bridge.ButtonEvent{Button: sw, Action: action})
	in.Buttons.HandleButton(bridge.ButtonEvent{Button: sw, Action: bridge.Released})
}

func (in *Input) axis(e device.AxisEvent) {
	if in.Keys == nil {
		return
	}
	var key string
	val := e.Value()
	switch e.Index() {
	case 0, 6:
		key = "left"
		if val > 0 {
			key = "right"
		}
	case 1, 7:
		key = "up"
		if val > 0 {
			key = "down"
		}
	default:
		return
	}
	if val < 0 {
		val = -val
	}
	if in.deflected[e.Index()] {
		if val < in.Threshold/2 {
			in.deflected[e.Index()] = false
		}
		return
	}
	if val < in.Threshold {
		return
	}
	in.deflected[e.Index()] = true
	if err := in.Keys.Press(key); err != nil {
		glog.Warningf("joystick: key %s: %v", key, err)
	}
}
