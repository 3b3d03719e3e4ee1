package joystick

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linesumo/pkg/bridge"
	fx "github.com/robotalks/linesumo/pkg/framework"
	"github.com/robotalks/linesumo/pkg/joystick/device"
)

type buttonEv struct {
	index   int
	pressed bool
	init    bool
}

func (e buttonEv) IsInit() bool { return e.init }
func (e buttonEv) Index() int { return e.index }
func (e buttonEv) Pressed() bool { return e.pressed }

type axisEv struct {
	index, value int
}

func (e axisEv) IsInit() bool { return false }
func (e axisEv) Index() int { return e.index }
func (e axisEv) Value() int { return e.value }

type recorder struct {
	buttons []bridge.ButtonEvent
	keys    []string
}

func (r *recorder) HandleButton(ev bridge.ButtonEvent) {
	r.buttons = append(r.buttons, ev)
}

func (r *recorder) Press(key string) error {
	r.keys = append(r.keys, key)
	return nil
}

func newTestInput() (*Input, *recorder, *fx.ManualClock) {
	rec := &recorder{}
	in := NewInput(rec, rec)
	clock := fx.NewManualClock(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	in.Clock = clock
	in.LongPress = time.Second
	in.Threshold = 16000
	return in, rec, clock
}

func TestButtons(t *testing.T) {
	in, rec, clock := newTestInput()
	in.HandleEvent(buttonEv{index: 0, pressed: true, init: true})
	in.HandleEvent(buttonEv{index: 0})
	require.Empty(t, rec.buttons, "init events and unmatched releases are ignored")

	in.HandleEvent(buttonEv{index: 0, pressed: true})
	clock.Advance(100 * time.Millisecond)
	in.HandleEvent(buttonEv{index: 0})

	in.HandleEvent(buttonEv{index: 2, pressed: true})
	clock.Advance(2 * time.Second)
	in.HandleEvent(buttonEv{index: 2})

	require.Equal(t, []bridge.ButtonEvent{
		{Button: 1, Action: bridge.Pressed},
		{Button: 1, Action: bridge.Released},
		{Button: 3, Action: bridge.LongPressed},
		{Button: 3, Action: bridge.Released},
	}, rec.buttons)
}

func TestAxes(t *testing.T) {
	in, rec, _ := newTestInput()
	for _, ev := range []axisEv{
		{1, -32767}, // up
		{1, -20000}, // still deflected
		{1, -1000},  // back to center
		{1, 32767},  // down
		{1, 0},
		{0, 20000}, // right
		{0, 0},
		{6, -32767}, // hat left
		{2, 32767},  // not mapped
		{0, 10000},  // below threshold
	} {
		in.HandleEvent(ev)
	}
	require.Equal(t, []string{"up", "down", "right", "left"}, rec.keys)
}

type fakeDevice struct {
	events []device.Event
}

func (d *fakeDevice) Close() error { return nil }
func (d *fakeDevice) Index() int { return 3 }
func (d *fakeDevice) Name() string { return "fake" }

func (d *fakeDevice) ReadEvent() (device.Event, error) {
	if len(d.events) == 0 {
		return nil, io.EOF
	}
	ev := d.events[0]
	d.events = d.events[1:]
	return ev, nil
}

func TestRun(t *testing.T) {
	in, _, _ := newTestInput()
	ctx, cancel := context.WithCancel(context.Background())
	in.DeviceIndex = 3
	in.Open = func(index int) (device.Device, error) {
		require.Equal(t, 3, index)
		cancel()
		return &fakeDevice{events: []device.Event{axisEv{1, 32767}}}, nil
	}
	require.ErrorIs(t, in.Run(ctx), context.Canceled)
}

func TestConfigDisabled(t *testing.T) {
	conf := NewConfig()
	conf.DeviceIndex = Disabled
	require.Nil(t, conf.NewInput(nil, nil))
	conf.DeviceIndex = 0
	in := conf.NewInput(nil, nil)
	require.NotNil(t, in)
	require.Equal(t, 0, in.DeviceIndex)
}
