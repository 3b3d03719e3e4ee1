package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopStepOrder(t *testing.T) {
	var calls []string
	clock := NewManualClock(time.Unix(100, 0))
	loop := NewLoop("test", 5*time.Millisecond).WithClock(clock)
	loop.AddController(
		ControlFunc(func(cc ControlContext) error {
			calls = append(calls, "a")
			require.Equal(t, time.Unix(100, 0), cc.Time())
			cc.PostRun(ControlFunc(func(ControlContext) error {
				calls = append(calls, "hook")
				return nil
			}))
			return nil
		}),
		ControlFunc(func(ControlContext) error {
			calls = append(calls, "b")
			return errors.New("ignored")
		}),
	)
	loop.Step(context.Background())
	require.Equal(t, []string{"a", "b", "hook"}, calls)

	calls = nil
	loop.Step(context.Background())
	require.Equal(t, []string{"a", "b", "hook"}, calls)
}

func TestLoopRunTriggerNext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stepped := make(chan struct{}, 16)
	loop := NewLoop("trigger", time.Hour)
	loop.AddController(ControlFunc(func(ControlContext) error {
		stepped <- struct{}{}
		return nil
	}))
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()
	loop.TriggerNext()
	select {
	case <-stepped:
	case <-time.After(time.Second):
		t.Fatal("loop not triggered")
	}
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestManualClockSleep(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	require.NoError(t, clock.Sleep(context.Background(), 70*time.Millisecond))
	require.Equal(t, 70*time.Millisecond, clock.Now().Sub(time.Unix(0, 0)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, context.Canceled, clock.Sleep(ctx, time.Second))
	require.Equal(t, 70*time.Millisecond, clock.Now().Sub(time.Unix(0, 0)))
}
