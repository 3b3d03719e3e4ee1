package bridge

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/linesumo/pkg/metrics"
	"github.com/robotalks/linesumo/pkg/radio"
)

// Sensors provides the values the remote can query.
type Sensors interface {
	BatteryCentiV() uint16
	ToFValues() [4]uint8
}

// PackToF packs the four distances into one value, first sensor in
// the lowest byte.
func PackToF(mm [4]uint8) uint32 {
	return uint32(mm[0]) | uint32(mm[1])<<8 | uint32(mm[2])<<16 | uint32(mm[3])<<24
}

// StdioHandler executes command lines received as StdIn and returns
// the output as StdOut. StdOut and StdErr from peers are printed.
type StdioHandler struct {
	Bridge *Bridge

	// owned by the radio task
	partial map[radio.Addr]string
}

// NewStdioHandler creates a StdioHandler.
func NewStdioHandler(b *Bridge) *StdioHandler {
	return &StdioHandler{Bridge: b, partial: make(map[radio.Addr]string)}
}

// HandleMessage implements radio.Handler.
func (h *StdioHandler) HandleMessage(_ context.Context, msg *radio.Message) (bool, error) {
	switch msg.Type {
	case radio.MsgStdOut, radio.MsgStdErr:
		h.Bridge.print(string(msg.Payload))
		return true, nil
	case radio.MsgStdIn:
	default:
		return false, nil
	}
	text := h.partial[msg.Src] + string(msg.Payload)
	lines := strings.Split(text, "\n")
	h.partial[msg.Src] = lines[len(lines)-1]
	if len(h.partial[msg.Src]) > 2*radio.MaxPayloadSize {
		glog.Warningf("bridge: stdin line from %s too long, dropped", msg.Src)
		delete(h.partial, msg.Src)
	}
	for _, line := range lines[:len(lines)-1] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var out bytes.Buffer
		if err := h.Bridge.Exec(&out, line); err != nil {
			fmt.Fprintf(&out, "ERR: %v\n", err)
		}
		if out.Len() == 0 || h.Bridge.Radio == nil {
			continue
		}
		if err := h.Bridge.Radio.SendStdio(radio.MsgStdOut, out.String()); err != nil {
			return true, err
		}
	}
	return true, nil
}

// DataHandler prints generic data messages.
func (b *Bridge) DataHandler() radio.Handler {
	return radio.HandlerFunc(func(_ context.Context, msg *radio.Message) (bool, error) {
		if msg.Type != radio.MsgData || len(msg.Payload) < 1 {
			return false, nil
		}
		b.print(fmt.Sprintf("Data: %d from addr 0x%02x\n", msg.Payload[0], uint8(msg.Src)))
		return true, nil
	})
}

// RemoteControlHandler serves set requests and queries from a remote.
func (b *Bridge) RemoteControlHandler(sensors Sensors) radio.Handler {
	return radio.HandlerFunc(func(_ context.Context, msg *radio.Message) (bool, error) {
		switch msg.Type {
		case radio.MsgRequestSetValue, radio.MsgQueryValue:
		default:
			return false, nil
		}
		iv, err := msg.IDValue()
		if err != nil {
			return true, err
		}
		if msg.Type == radio.MsgRequestSetValue {
			if iv.ID != radio.DataStartStop || b.Sumo == nil {
				return false, nil
			}
			if iv.Value != 0 {
				b.Sumo.Start()
			} else {
				b.Sumo.Stop()
			}
			return true, nil
		}

		var value uint32
		switch {
		case iv.ID == radio.DataStartStop && b.Sumo != nil:
			if b.Sumo.IsRunning() {
				value = 1
			}
		case iv.ID == radio.DataBatteryV && sensors != nil:
			value = uint32(sensors.BatteryCentiV())
		case iv.ID == radio.DataToFValues && sensors != nil:
			value = PackToF(sensors.ToFValues())
		default:
			return false, nil
		}
		if b.Radio == nil {
			return true, nil
		}
		return true, b.Radio.SendIDValue(radio.MsgQueryValueResponse, iv.ID, value, msg.Src, radio.FlagsNone)
	})
}

// RunningReporter notifies the destination node when sumo starts or
// stops, and keeps the running gauge current.
type RunningReporter struct {
	Radio    Radio
	Behavior string
}

// ReportRunning implements sumo.Reporter.
func (r *RunningReporter) ReportRunning(running bool) error {
	metrics.SetRunning(r.Behavior, running)
	var value uint32
	if running {
		value = 1
	}
	return r.Radio.SendIDValue(radio.MsgNotifyValue, radio.DataStartStop, value, r.Radio.DestAddr(), radio.FlagsNone)
}

// RegisterHandlers adds the robot handlers to d in dispatch order.
func (b *Bridge) RegisterHandlers(d *radio.Dispatcher, sensors Sensors) {
	d.Register("stdio", NewStdioHandler(b)).
		Register("data", b.DataHandler()).
		Register("remote", b.RemoteControlHandler(sensors))
}
