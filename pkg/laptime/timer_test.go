package laptime

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/linesumo/pkg/framework"
	"github.com/robotalks/linesumo/pkg/radio"
)

type lines []string

func (l *lines) SendString(s string) error {
	*l = append(*l, s)
	return nil
}

func newTimer() (*Timer, *fx.ManualClock, *lines) {
	out := &lines{}
	clock := fx.NewManualClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	t := New(out)
	t.Clock = clock
	return t, clock, out
}

func TestFullLap(t *testing.T) {
	timer, clock, _ := newTimer()
	require.Equal(t, "Group: 7 Event: A\n", timer.Record(7, EventStart))
	require.Equal(t, "Group: 7 Event: A repeat A\n", timer.Record(7, EventStart))
	clock.Advance(1500 * time.Millisecond)
	require.Equal(t, "Group: 7 Event: B timeAB: 1500 ms\n", timer.Record(7, EventMiddle))
	require.Equal(t, "Group: 7 Event: B repeat B\n", timer.Record(7, EventMiddle))
	clock.Advance(time.Second)
	report := timer.Record(7, EventFinish)
	require.True(t, strings.HasPrefix(report, "Group: 7 Event: C timeAC: 2500 ms\n"))
	require.Contains(t, report, "\t7\t1500\t2500\n")
	require.Equal(t, "Group: 7 Event: C repeat C\n", timer.Record(7, EventFinish))
}

func TestDNFPenalty(t *testing.T) {
	timer, _, _ := newTimer()
	timer.Record(1, EventStart)
	report := timer.Record(1, EventDNF)
	require.True(t, strings.HasPrefix(report, "Group: 1 Event: X DNF\n"))
	require.Contains(t, report, "\t1\t300000\t600000\n")

	report = timer.Record(1, 'Q')
	require.True(t, strings.HasPrefix(report, "Group: 1 Event: Q ERROR\n"))
	require.Contains(t, report, "\t1\t300000\t600000\n")
}

func TestReset(t *testing.T) {
	timer, _, _ := newTimer()
	timer.Record(1, EventStart)
	timer.Reset()
	require.Equal(t, "Group: 1 Event: A\n", timer.Record(1, EventStart))
	require.Equal(t, "Group: 1 Event: T TEST\n", timer.Record(1, EventTest))
}

func TestHandleMessage(t *testing.T) {
	timer, _, out := newTimer()
	handled, err := timer.HandleMessage(context.Background(), &radio.Message{Type: radio.MsgLapPoint, Payload: []byte{3, EventStart}})
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, lines{"Group: 3 Event: A\n"}, *out)

	handled, err = timer.HandleMessage(context.Background(), &radio.Message{Type: radio.MsgData, Payload: []byte{3, EventStart}})
	require.NoError(t, err)
	require.False(t, handled)
}
