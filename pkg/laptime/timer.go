// Package laptime keeps the lap times reported by robots passing the
// start (A), middle (B) and finish (C) points of a course.
package laptime

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/linesumo/pkg/framework"
	"github.com/robotalks/linesumo/pkg/radio"
)

// Lap events.
const (
	EventStart  byte = 'A'
	EventMiddle byte = 'B'
	EventFinish byte = 'C'
	EventDNF    byte = 'X'
	EventTest   byte = 'T'
)

// Penalty is added for every leg not finished.
const Penalty = 5 * time.Minute

const separator = "---------------------------------------"

// Sink receives output text.
type Sink interface {
	SendString(s string) error
}

// Timer measures A to B and A to C.
type Timer struct {
	Clock fx.Clock
	Out   Sink

	lock    sync.Mutex
	a, b, c time.Time
}

// New creates a Timer.
func New(out Sink) *Timer {
	return &Timer{Clock: fx.SystemClock, Out: out}
}

// Reset forgets the current lap.
func (t *Timer) Reset() {
	t.lock.Lock()
	t.a, t.b, t.c = time.Time{}, time.Time{}, time.Time{}
	t.lock.Unlock()
}

// Record registers an event of group and returns the report text.
func (t *Timer) Record(group, event byte) string {
	t.lock.Lock()
	defer t.lock.Unlock()

	now := t.Clock.Now()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Group: %d Event: %c", group, event)
	switch {
	case event == EventStart && t.a.IsZero():
		t.a = now
	case event == EventStart && t.b.IsZero() && t.c.IsZero():
		sb.WriteString(" repeat A")
	case event == EventMiddle && !t.a.IsZero() && t.b.IsZero() && t.c.IsZero():
		t.b = now
		fmt.Fprintf(&sb, " timeAB: %d ms", t.b.Sub(t.a).Milliseconds())
	case event == EventMiddle && !t.a.IsZero() && !t.b.IsZero() && t.c.IsZero():
		sb.WriteString(" repeat B")
	case event == EventFinish && !t.a.IsZero() && !t.b.IsZero() && t.c.IsZero():
		t.c = now
		fmt.Fprintf(&sb, " timeAC: %d ms", t.c.Sub(t.a).Milliseconds())
	case event == EventFinish && t.a.IsZero() && t.b.IsZero() && t.c.IsZero():
		sb.WriteString(" repeat C")
	case event == EventTest:
		sb.WriteString(" TEST")
	default:
		if event == EventDNF {
			sb.WriteString(" DNF")
		} else {
			sb.WriteString(" ERROR")
		}
		switch {
		case t.a.IsZero():
			t.a = now
			t.b = t.a.Add(Penalty)
			t.c = t.b.Add(Penalty)
		case t.b.IsZero():
			t.b = t.a.Add(Penalty)
			t.c = t.b.Add(Penalty)
		default:
			t.c = t.b.Add(Penalty)
		}
	}
	sb.WriteString("\n")

	if !t.c.IsZero() {
		fmt.Fprintln(&sb, separator)
		fmt.Fprintln(&sb, "Date\tTime\tGroup\ttimeAB(ms)\ttimeAC(ms)")
		fmt.Fprintln(&sb, separator)
		fmt.Fprintf(&sb, "%s\t%s\t%d\t%d\t%d\n",
			now.Format("2006-01-02"), now.Format("15:04:05"), group,
			t.b.Sub(t.a).Milliseconds(), t.c.Sub(t.a).Milliseconds())
		fmt.Fprintln(&sb, separator)
		t.a, t.b, t.c = time.Time{}, time.Time{}, time.Time{}
	}
	return sb.String()
}

// HandleMessage implements radio.Handler for lap point messages.
func (t *Timer) HandleMessage(_ context.Context, msg *radio.Message) (bool, error) {
	if msg.Type != radio.MsgLapPoint || len(msg.Payload) != 2 {
		return false, nil
	}
	report := t.Record(msg.Payload[0], msg.Payload[1])
	glog.V(2).Infof("laptime: %s", strings.TrimSpace(report))
	if t.Out != nil {
		return true, t.Out.SendString(report)
	}
	return true, nil
}
