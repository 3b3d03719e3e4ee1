package bridge

import (
	"fmt"

	"github.com/golang/glog"
)

// NumButtons is the number of switches on the boards.
const NumButtons = 7

// ButtonAction is what happened to a button.
type ButtonAction int

// Button actions.
const (
	Pressed ButtonAction = iota
	LongPressed
	Released
)

func (a ButtonAction) String() string {
	switch a {
	case Pressed:
		return "pressed"
	case LongPressed:
		return "long pressed"
	case Released:
		return "released"
	}
	return "unknown"
}

// ButtonEvent is a debounced button event. Button counts from 1.
type ButtonEvent struct {
	Button int
	Action ButtonAction
}

func (e ButtonEvent) String() string {
	return fmt.Sprintf("SW%d %s", e.Button, e.Action)
}

// HandleButton reports the event and runs the behavior bound to it:
// SW1 toggles line following, a long press of SW1 toggles sumo.
func (b *Bridge) HandleButton(ev ButtonEvent) {
	if ev.Button < 1 || ev.Button > NumButtons {
		glog.Warningf("bridge: ignored %s", ev)
		return
	}
	b.print(fmt.Sprintf("Button pressed: %s: %d\n", ev.Action, ev.Button))
	if ev.Button != 1 {
		return
	}
	switch {
	case ev.Action == Pressed && b.Line != nil:
		b.Line.Toggle()
	case ev.Action == LongPressed && b.Sumo != nil:
		b.Sumo.Toggle()
	}
}

func (b *Bridge) print(s string) {
	if b.Out == nil {
		return
	}
	if err := b.Out.SendString(s); err != nil {
		glog.Warningf("bridge: output dropped: %v", err)
	}
}
