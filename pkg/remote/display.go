package remote

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	fx "github.com/robotalks/linesumo/pkg/framework"
)

// Period is the cycle of the display task.
const Period = 10 * time.Millisecond

// QueueSize is the number of pending menu events.
const QueueSize = 5

// ErrQueueFull is returned when the event queue has no room.
var ErrQueueFull = errors.New("display queue full")

// Screen shows rendered lines.
type Screen interface {
	Show(lines []string) error
}

// TextScreen prints each frame to a writer.
type TextScreen struct {
	Out io.Writer
}

// Show implements Screen.
func (s *TextScreen) Show(lines []string) error {
	_, err := fmt.Fprintf(s.Out, "+--------------\n%s\n+--------------\n", strings.Join(lines, "\n"))
	return err
}

// Display is the display task: it applies queued menu events and
// redraws when something changed.
type Display struct {
	Menu   *Menu
	Screen Screen

	events chan Event
}

// NewDisplay creates a Display.
func NewDisplay(menu *Menu, screen Screen) *Display {
	return &Display{Menu: menu, Screen: screen, events: make(chan Event, QueueSize)}
}

// Name implements Named.
func (d *Display) Name() string {
	return "display"
}

// SetEvent queues an event. It never blocks.
func (d *Display) SetEvent(ev Event) error {
	select {
	case d.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Press queues the event named key.
func (d *Display) Press(key string) error {
	ev, ok := ParseEvent(key)
	if !ok {
		return fmt.Errorf("unknown key %q", key)
	}
	return d.SetEvent(ev)
}

// AddToLoop implements LoopAdder.
func (d *Display) AddToLoop(loop *fx.Loop) {
	loop.AddController(d)
}

// Task creates the periodic display task.
func (d *Display) Task() *fx.Loop {
	return fx.NewLoop(d.Name(), Period).Add(d)
}

// Control implements Controller.
func (d *Display) Control(fx.ControlContext) error {
	redraw := d.Menu.Values.ConsumeDirty()
	var errs fx.AggregatedError
	for n := len(d.events); n > 0; n-- {
		ev := <-d.events
		redraw = true
		if ev == EventRefresh {
			continue
		}
		if err := d.Menu.HandleEvent(ev); err != nil {
			errs.Add(fmt.Errorf("event %d: %w", ev, err))
		}
	}
	if !redraw {
		return errs.Aggregate()
	}
	errs.Add(d.Menu.RequestMissing())
	errs.Add(d.Screen.Show(d.Menu.Lines()))
	return errs.Aggregate()
}
