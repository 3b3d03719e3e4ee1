package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is used when a Loop is created without a period.
const DefaultInterval = 10 * time.Millisecond

// Loop is a periodic task. Every Interval it runs all registered
// controllers in order. A Loop owns its controllers: their Control
// methods are never invoked concurrently.
type Loop struct {
	TaskName string
	Interval time.Duration
	Clock    Clock

	controllers []Controller
	runners     []Runnable

	hooks     []Controller
	hooksLock sync.Mutex

	wakeUpCh chan struct{}
	once     sync.Once
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopIteration struct {
	*Loop
	ctx  context.Context
	time time.Time
}

// NewLoop creates a Loop with the name and period.
func NewLoop(name string, interval time.Duration) *Loop {
	return &Loop{TaskName: name, Interval: interval}
}

// Name implements Named.
func (l *Loop) Name() string {
	return l.TaskName
}

// WithClock replaces the clock.
func (l *Loop) WithClock(clock Clock) *Loop {
	l.Clock = clock
	return l
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop. Controllers
// which are also Runnable are started together with the loop.
func (l *Loop) AddController(ctls ...Controller) *Loop {
	l.controllers = append(l.controllers, ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

func (l *Loop) init() {
	l.once.Do(func() {
		l.wakeUpCh = make(chan struct{}, 1)
		if l.Clock == nil {
			l.Clock = SystemClock
		}
	})
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	l.init()

	runner := NewRunnerWith(ctx)
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	glog.V(4).Infof("task %q running every %v", l.TaskName, interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step(ctx)
		case <-l.wakeUpCh:
			l.Step(ctx)
		}
	}
}

// Step runs a single cycle synchronously.
func (l *Loop) Step(ctx context.Context) {
	l.init()
	iter := &loopIteration{Loop: l, ctx: ctx, time: l.Clock.Now()}
	runControllers(l.TaskName, iter, l.controllers)
	l.hooksLock.Lock()
	hooks := l.hooks
	l.hooks = nil
	l.hooksLock.Unlock()
	runControllers(l.TaskName, iter, hooks)
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	l.init()
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) Time() time.Time {
	return t.time
}

func (t *loopIteration) Clock() Clock {
	return t.Loop.Clock
}

func (t *loopIteration) PostRun(hooks ...Controller) {
	t.hooksLock.Lock()
	t.hooks = append(t.hooks, hooks...)
	t.hooksLock.Unlock()
}

func runControllers(task string, iter *loopIteration, ctls []Controller) {
	for _, ctl := range ctls {
		if err := ctl.Control(iter); err != nil {
			glog.Errorf("%s: controller error: %v", task, err)
		}
	}
}
