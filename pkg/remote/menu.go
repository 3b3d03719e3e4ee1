package remote

import (
	"fmt"
	"strings"

	"github.com/robotalks/linesumo/pkg/radio"
)

// Sender sends id/value messages.
type Sender interface {
	SendIDValue(t radio.MsgType, id radio.DataID, value uint32, dst radio.Addr, flags radio.Flags) error
}

// Item is a menu entry.
type Item int

// Menu items of the robot page.
const (
	ItemSumoStart Item = iota
	ItemSumoStop
	ItemBattery
	ItemToF
	numItems
)

// Event is a menu navigation event.
type Event int

// Menu events.
const (
	EventRefresh Event = iota
	EventUp
	EventDown
	EventLeft
	EventRight
	EventEnter
)

var eventNames = map[string]Event{
	"refresh": EventRefresh,
	"up":      EventUp,
	"down":    EventDown,
	"left":    EventLeft,
	"right":   EventRight,
	"enter":   EventEnter,
}

// ParseEvent parses an event name.
func ParseEvent(s string) (Event, bool) {
	ev, ok := eventNames[strings.ToLower(s)]
	return ev, ok
}

// Menu is the robot page of the remote menu.
type Menu struct {
	Values *Values
	Sender Sender
	// Dest gives the node receiving the requests, read on every
	// request. Requests are broadcast if nil.
	Dest func() radio.Addr

	selected Item
	// queries already sent for values still unknown
	requested map[radio.DataID]bool
}

// NewMenu creates a Menu.
func NewMenu(values *Values, sender Sender) *Menu {
	return &Menu{
		Values:    values,
		Sender:    sender,
		requested: make(map[radio.DataID]bool),
	}
}

func (m *Menu) dest() radio.Addr {
	if m.Dest == nil {
		return radio.AddrBroadcast
	}
	return m.Dest()
}

// Selected returns the selected item.
func (m *Menu) Selected() Item {
	return m.selected
}

// Text renders an item from a snapshot.
func Text(item Item, s Snapshot) string {
	switch item {
	case ItemSumoStart, ItemSumoStop:
		label := "Start"
		if item == ItemSumoStop {
			label = "Stop"
		}
		switch {
		case !s.SumoValid:
			return label + " ?"
		case s.SumoRunning:
			return label + " (running)"
		default:
			return label + " (stopped)"
		}
	case ItemBattery:
		if !s.BattValid {
			return "Batt: ?.??V"
		}
		return fmt.Sprintf("Batt: %d.%02dV", s.BattCentiV/100, s.BattCentiV%100)
	case ItemToF:
		parts := make([]string, len(s.ToF))
		for n, mm := range s.ToF {
			if s.ToFValid {
				parts[n] = fmt.Sprintf("%02X", mm)
			} else {
				parts[n] = "??"
			}
		}
		return "D:" + strings.Join(parts, ":")
	}
	return ""
}

// Lines renders the page, the selected item marked.
func (m *Menu) Lines() []string {
	snap := m.Values.Snapshot()
	lines := make([]string, 0, numItems)
	for item := Item(0); item < numItems; item++ {
		prefix := "  "
		if item == m.selected {
			prefix = "> "
		}
		lines = append(lines, prefix+Text(item, snap))
	}
	return lines
}

// RequestMissing queries values shown as unknown, once per value
// until it is invalidated again.
func (m *Menu) RequestMissing() error {
	snap := m.Values.Snapshot()
	missing := map[radio.DataID]bool{
		radio.DataStartStop: !snap.SumoValid,
		radio.DataBatteryV:  !snap.BattValid,
	}
	for _, id := range []radio.DataID{radio.DataStartStop, radio.DataBatteryV} {
		if !missing[id] {
			delete(m.requested, id)
			continue
		}
		if m.requested[id] {
			continue
		}
		if err := m.Sender.SendIDValue(radio.MsgQueryValue, id, 0, m.dest(), radio.FlagsNone); err != nil {
			return err
		}
		m.requested[id] = true
	}
	return nil
}

// HandleEvent moves the selection or runs the action of the selected
// item. Enter on Start/Stop requests the change, Right queries the
// state; Enter or Right on a sensor item refreshes it.
func (m *Menu) HandleEvent(ev Event) error {
	switch ev {
	case EventUp:
		if m.selected > 0 {
			m.selected--
		}
		return nil
	case EventDown:
		if m.selected < numItems-1 {
			m.selected++
		}
		return nil
	case EventEnter, EventRight:
	default:
		return nil
	}

	var (
		msgType = radio.MsgQueryValue
		id      radio.DataID
		value   uint32
	)
	switch m.selected {
	case ItemSumoStart, ItemSumoStop:
		id = radio.DataStartStop
		if ev == EventEnter {
			msgType = radio.MsgRequestSetValue
			if m.selected == ItemSumoStart {
				value = 1
			}
		}
	case ItemToF:
		id = radio.DataToFValues
		m.Values.Invalidate(id)
	case ItemBattery:
		id = radio.DataBatteryV
		m.Values.Invalidate(id)
	}
	if err := m.Sender.SendIDValue(msgType, id, value, m.dest(), radio.FlagsNone); err != nil {
		return err
	}
	if msgType == radio.MsgQueryValue {
		m.requested[id] = true
	}
	return nil
}
