package bridge

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linesumo/pkg/radio"
)

type fakeBehavior struct {
	running bool
	starts  int
	stops   int
	toggles int
}

func (f *fakeBehavior) Start() { f.starts++ }
func (f *fakeBehavior) Stop() { f.stops++ }
func (f *fakeBehavior) Toggle() { f.toggles++ }
func (f *fakeBehavior) IsRunning() bool { return f.running }
func (f *fakeBehavior) StateName() string { return "IDLE" }

type sent struct {
	t       radio.MsgType
	id      radio.DataID
	value   uint32
	dst     radio.Addr
	payload string
}

type fakeRadio struct {
	node, dest radio.Addr
	sent       []sent
	fail       error
}

func (r *fakeRadio) DestAddr() radio.Addr { return r.dest }
func (r *fakeRadio) SetDestAddr(a radio.Addr) { r.dest = a }
func (r *fakeRadio) NodeAddr() (radio.Addr, error) { return r.node, nil }

func (r *fakeRadio) SetNodeAddr(a radio.Addr) error {
	r.node = a
	return nil
}

func (r *fakeRadio) SendData(val byte) error {
	r.sent = append(r.sent, sent{t: radio.MsgData, value: uint32(val), dst: r.dest})
	return r.fail
}

func (r *fakeRadio) SendStdio(t radio.MsgType, text string) error {
	r.sent = append(r.sent, sent{t: t, dst: r.dest, payload: text})
	return r.fail
}

func (r *fakeRadio) SendIDValue(t radio.MsgType, id radio.DataID, value uint32, dst radio.Addr, _ radio.Flags) error {
	r.sent = append(r.sent, sent{t: t, id: id, value: value, dst: dst})
	return r.fail
}

type lines []string

func (l *lines) SendString(s string) error {
	*l = append(*l, s)
	return nil
}

type laps struct{ resets int }

func (l *laps) Reset() { l.resets++ }

func newBridge() (*Bridge, *fakeBehavior, *fakeBehavior, *fakeRadio, *lines) {
	line, sumo := &fakeBehavior{}, &fakeBehavior{}
	r := &fakeRadio{node: 0x01, dest: radio.AddrBroadcast}
	out := &lines{}
	return &Bridge{Line: line, Sumo: sumo, Radio: r, Out: out}, line, sumo, r, out
}

func TestBehaviorCommands(t *testing.T) {
	b, line, sumo, _, _ := newBridge()
	var w bytes.Buffer
	require.NoError(t, b.Exec(&w, "line start"))
	require.NoError(t, b.Exec(&w, "line stop"))
	require.NoError(t, b.Exec(&w, "  sumo   start "))
	require.Equal(t, 1, line.starts)
	require.Equal(t, 1, line.stops)
	require.Equal(t, 1, sumo.starts)

	w.Reset()
	require.NoError(t, b.Exec(&w, "sumo status"))
	require.Contains(t, w.String(), "IDLE")

	require.True(t, errors.Is(b.Exec(&w, "line jump"), ErrUnknownCommand))
	require.True(t, errors.Is(b.Exec(&w, "fly"), ErrUnknownCommand))
	require.NoError(t, b.Exec(&w, ""))
}

func TestHelpAndStatus(t *testing.T) {
	b, _, _, _, _ := newBridge()
	var w bytes.Buffer
	require.NoError(t, b.Exec(&w, "help"))
	for _, s := range []string{"shell", "line", "sumo", "app", "saddr 0x<addr>"} {
		require.Contains(t, w.String(), s)
	}
	require.NotContains(t, w.String(), "labtime")

	w.Reset()
	require.NoError(t, b.Exec(&w, "status"))
	require.Contains(t, w.String(), "dest addr")
	require.Contains(t, w.String(), "0xff")
	require.Equal(t, []string{"shell", "line", "sumo", "app"}, b.Groups())

	b.Line, b.Radio = nil, nil
	require.Equal(t, []string{"shell", "sumo"}, b.Groups())
}

func TestAppCommands(t *testing.T) {
	b, _, _, r, _ := newBridge()
	var w bytes.Buffer
	require.NoError(t, b.Exec(&w, "app daddr 0x12"))
	require.Equal(t, radio.Addr(0x12), r.dest)
	require.NoError(t, b.Exec(&w, "app saddr 2A"))
	require.Equal(t, radio.Addr(0x2a), r.node)

	require.NoError(t, b.Exec(&w, "app send val 200"))
	require.NoError(t, b.Exec(&w, "app send out hello robot"))
	require.Equal(t, []sent{
		{t: radio.MsgData, value: 200, dst: 0x12},
		{t: radio.MsgStdOut, dst: 0x12, payload: "hello robot\n"},
	}, r.sent)

	r.fail = errors.New("busy")
	w.Reset()
	require.Error(t, b.Exec(&w, "app send err x"))
	require.Equal(t, "failed!\n", w.String())
}

func TestBadArgumentsChangeNothing(t *testing.T) {
	b, line, sumo, r, _ := newBridge()
	b.val.Store(7)
	for _, cmd := range []string{
		"app daddr 0xzz",
		"app daddr 0x100",
		"app saddr",
		"app send val 256",
		"app send val -1",
		"shell val twelve",
		"shell val 1 2",
	} {
		var w bytes.Buffer
		err := b.Exec(&w, cmd)
		require.True(t, errors.Is(err, ErrBadFormat), cmd)
		require.Contains(t, w.String(), "ERR: wrong", cmd)
	}
	require.Equal(t, radio.Addr(0x01), r.node)
	require.Equal(t, radio.AddrBroadcast, r.dest)
	require.Empty(t, r.sent)
	require.Equal(t, int32(7), b.Value())
	require.Equal(t, fakeBehavior{}, *line)
	require.Equal(t, fakeBehavior{}, *sumo)
}

func TestShellVal(t *testing.T) {
	b, _, _, _, _ := newBridge()
	var w bytes.Buffer
	require.NoError(t, b.Exec(&w, "shell val -42"))
	require.Equal(t, int32(-42), b.Value())
	require.NoError(t, b.Exec(&w, "Shell val 0x10"))
	require.Equal(t, int32(16), b.Value())
}

func TestResetLabtime(t *testing.T) {
	b, _, _, _, _ := newBridge()
	l := &laps{}
	b.Laps = l
	var w bytes.Buffer
	require.NoError(t, b.Exec(&w, "reset labtime"))
	require.Equal(t, 1, l.resets)
}

func TestButtons(t *testing.T) {
	b, line, sumo, _, out := newBridge()
	b.HandleButton(ButtonEvent{Button: 1, Action: Pressed})
	b.HandleButton(ButtonEvent{Button: 1, Action: LongPressed})
	b.HandleButton(ButtonEvent{Button: 1, Action: Released})
	b.HandleButton(ButtonEvent{Button: 3, Action: Pressed})
	b.HandleButton(ButtonEvent{Button: 9, Action: Pressed})
	require.Equal(t, 1, line.toggles)
	require.Equal(t, 1, sumo.toggles)
	require.Equal(t, lines{
		"Button pressed: pressed: 1\n",
		"Button pressed: long pressed: 1\n",
		"Button pressed: released: 1\n",
		"Button pressed: pressed: 3\n",
	}, *out)
}

type fakeSensors struct{}

func (fakeSensors) BatteryCentiV() uint16 { return 742 }
func (fakeSensors) ToFValues() [4]uint8 { return [4]uint8{1, 2, 3, 4} }

func TestRemoteControl(t *testing.T) {
	b, _, sumo, r, _ := newBridge()
	h := b.RemoteControlHandler(fakeSensors{})
	ctx := context.Background()

	set := &radio.Message{Type: radio.MsgRequestSetValue, Src: 0x05,
		Payload: radio.EncodeIDValue(radio.MsgRequestSetValue, radio.DataStartStop, 1)}
	handled, err := h.HandleMessage(ctx, set)
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, 1, sumo.starts)
	set.Payload = radio.EncodeIDValue(radio.MsgRequestSetValue, radio.DataStartStop, 0)
	_, err = h.HandleMessage(ctx, set)
	require.NoError(t, err)
	require.Equal(t, 1, sumo.stops)

	sumo.running = true
	for _, id := range []radio.DataID{radio.DataStartStop, radio.DataBatteryV, radio.DataToFValues} {
		handled, err = h.HandleMessage(ctx, &radio.Message{Type: radio.MsgQueryValue, Src: 0x05,
			Payload: radio.EncodeIDValue(radio.MsgQueryValue, id, 0)})
		require.NoError(t, err)
		require.True(t, handled)
	}
	require.Equal(t, []sent{
		{t: radio.MsgQueryValueResponse, id: radio.DataStartStop, value: 1, dst: 0x05},
		{t: radio.MsgQueryValueResponse, id: radio.DataBatteryV, value: 742, dst: 0x05},
		{t: radio.MsgQueryValueResponse, id: radio.DataToFValues, value: 0x04030201, dst: 0x05},
	}, r.sent)

	handled, err = h.HandleMessage(ctx, &radio.Message{Type: radio.MsgQueryValue,
		Payload: radio.EncodeIDValue(radio.MsgQueryValue, 99, 0)})
	require.NoError(t, err)
	require.False(t, handled)

	handled, err = h.HandleMessage(ctx, &radio.Message{Type: radio.MsgQueryValue, Payload: []byte{9}})
	require.True(t, handled)
	require.Error(t, err)

	handled, _ = h.HandleMessage(ctx, &radio.Message{Type: radio.MsgData, Payload: []byte{9}})
	require.False(t, handled)
}

func TestStdioAndData(t *testing.T) {
	b, line, _, r, out := newBridge()
	d := &radio.Dispatcher{}
	b.RegisterHandlers(d, nil)
	require.Equal(t, []string{"stdio", "data", "remote"}, d.Names())
	ctx := context.Background()

	_, err := d.HandleMessage(ctx, &radio.Message{Type: radio.MsgStdIn, Src: 0x07, Payload: []byte("line st")})
	require.NoError(t, err)
	require.Equal(t, 0, line.starts)
	_, err = d.HandleMessage(ctx, &radio.Message{Type: radio.MsgStdIn, Src: 0x07, Payload: []byte("art\nline status\n")})
	require.NoError(t, err)
	require.Equal(t, 1, line.starts)
	require.Len(t, r.sent, 1)
	require.Equal(t, radio.MsgStdOut, r.sent[0].t)
	require.Contains(t, r.sent[0].payload, "IDLE")

	_, err = d.HandleMessage(ctx, &radio.Message{Type: radio.MsgStdOut, Payload: []byte("hi\n")})
	require.NoError(t, err)
	_, err = d.HandleMessage(ctx, &radio.Message{Type: radio.MsgData, Src: 0x0a, Payload: []byte{42}})
	require.NoError(t, err)
	require.Equal(t, lines{"hi\n", "Data: 42 from addr 0x0a\n"}, *out)
}

func TestRunningReporter(t *testing.T) {
	r := &fakeRadio{dest: 0x03}
	rep := &RunningReporter{Radio: r, Behavior: "sumo"}
	require.NoError(t, rep.ReportRunning(true))
	require.NoError(t, rep.ReportRunning(false))
	require.Equal(t, []sent{
		{t: radio.MsgNotifyValue, id: radio.DataStartStop, value: 1, dst: 0x03},
		{t: radio.MsgNotifyValue, id: radio.DataStartStop, value: 0, dst: 0x03},
	}, r.sent)
}
