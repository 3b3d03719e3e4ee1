package radio

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/linesumo/pkg/framework"
)

// Period is the cycle of the radio task. The retry and ack timers of
// the stack assume it is not longer.
const Period = 2 * time.Millisecond

// MinUptime is the time the transceiver needs after power on.
const MinUptime = 100 * time.Millisecond

// MaxPayloadSize is the largest application payload of a packet.
const MaxPayloadSize = 29

// Lap point group of this robot.
const lapGroup = 0

// ErrNoAddressing is returned when the transport has no own address.
var ErrNoAddressing = errors.New("transport does not support addressing")

// Transport is the radio stack collaborator.
type Transport interface {
	// PowerUp powers the transceiver.
	PowerUp(ctx context.Context) error
	// SendPayload queues a payload for sending.
	SendPayload(payload []byte, t MsgType, dst Addr, flags Flags) error
	// Process runs one step of the stack: it services the in and out
	// queues and the retry timers, and hands inbound messages to h.
	Process(ctx context.Context, h Handler) error
}

// Addressable is implemented by transports with a configurable
// own address.
type Addressable interface {
	Addr() Addr
	SetAddr(Addr)
}

// State of the radio task.
type State int32

// States.
const (
	StateNone State = iota
	StatePowerUp
	StateActive
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StatePowerUp:
		return "POWERUP"
	case StateActive:
		return "TX_RX"
	}
	return "UNKNOWN"
}

// App is the radio task. It owns the power up sequence and pumps the
// transport every cycle.
type App struct {
	Transport  Transport
	Dispatcher Dispatcher
	// BootTime is the power on time the uptime is measured from.
	BootTime time.Time
	// TimeSystem is the node receiving lap signals.
	TimeSystem Addr

	state atomic.Int32
	dest  atomic.Uint32
}

// NewApp creates an App.
func NewApp(conf *Config, t Transport, bootTime time.Time) *App {
	a := &App{
		Transport:  t,
		BootTime:   bootTime,
		TimeSystem: conf.TimeSystemAddr,
	}
	a.dest.Store(uint32(conf.DestAddr))
	if ad, ok := t.(Addressable); ok {
		ad.SetAddr(conf.NodeAddr)
	}
	return a
}

// Name implements Named.
func (a *App) Name() string {
	return "radio"
}

// AddToLoop implements LoopAdder.
func (a *App) AddToLoop(loop *fx.Loop) {
	loop.AddController(a)
	if r, ok := a.Transport.(fx.Runnable); ok {
		loop.AddRunnable(r)
	}
}

// Task creates the periodic radio task.
func (a *App) Task() *fx.Loop {
	return fx.NewLoop(a.Name(), Period).Add(a)
}

// State returns the current state.
func (a *App) State() State {
	return State(a.state.Load())
}

// StateName returns the state for status rendering.
func (a *App) StateName() string {
	return a.State().String()
}

// Control implements Controller.
func (a *App) Control(cc fx.ControlContext) error {
	ctx := cc.Context()
	for {
		switch a.State() {
		case StateNone:
			a.setState(StatePowerUp)
			continue
		case StatePowerUp:
			if err := a.powerUp(ctx, cc.Clock()); err != nil {
				return err
			}
			a.setState(StateActive)
		case StateActive:
			return a.Transport.Process(ctx, &a.Dispatcher)
		}
		return nil
	}
}

func (a *App) powerUp(ctx context.Context, clock fx.Clock) error {
	if uptime := clock.Now().Sub(a.BootTime); uptime < MinUptime {
		glog.V(2).Infof("radio: uptime %v, waiting %v before power up", uptime, MinUptime-uptime)
		if err := clock.Sleep(ctx, MinUptime-uptime); err != nil {
			return err
		}
	}
	return a.Transport.PowerUp(ctx)
}

func (a *App) setState(s State) {
	if old := State(a.state.Swap(int32(s))); old != s {
		glog.V(2).Infof("radio: %s -> %s", old, s)
	}
}

// DestAddr returns the current destination node.
func (a *App) DestAddr() Addr {
	return Addr(a.dest.Load())
}

// SetDestAddr changes the destination node.
func (a *App) SetDestAddr(addr Addr) {
	a.dest.Store(uint32(addr))
}

// NodeAddr returns the own address of the transport.
func (a *App) NodeAddr() (Addr, error) {
	ad, ok := a.Transport.(Addressable)
	if !ok {
		return 0, ErrNoAddressing
	}
	return ad.Addr(), nil
}

// SetNodeAddr changes the own address of the transport.
func (a *App) SetNodeAddr(addr Addr) error {
	ad, ok := a.Transport.(Addressable)
	if !ok {
		return ErrNoAddressing
	}
	ad.SetAddr(addr)
	return nil
}

// SendIDValue sends an id/value message. Errors of the transport are
// returned as is, nothing is retried here.
func (a *App) SendIDValue(t MsgType, id DataID, value uint32, dst Addr, flags Flags) error {
	return a.Transport.SendPayload(EncodeIDValue(t, id, value), t, dst, flags)
}

// SendSignal sends a lap point signal to the time keeping node.
func (a *App) SendSignal(sig byte) error {
	return a.Transport.SendPayload([]byte{lapGroup, sig}, MsgLapPoint, a.TimeSystem, FlagsNone)
}

// SendData sends a single data byte to the destination node.
func (a *App) SendData(val byte) error {
	return a.Transport.SendPayload([]byte{val}, MsgData, a.DestAddr(), FlagsNone)
}

// SendStdio sends text to a stdio stream of the destination node.
// Text longer than a packet is split.
func (a *App) SendStdio(t MsgType, text string) error {
	data := []byte(text)
	for len(data) > 0 {
		n := len(data)
		if n > MaxPayloadSize {
			n = MaxPayloadSize
		}
		if err := a.Transport.SendPayload(data[:n], t, a.DestAddr(), FlagsNone); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
