package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang/glog"
)

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun gives a Runnable the name used in logs and errors.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

// Runner starts tasks in their own goroutines and collects how they
// ended. A task ending with context.Canceled is not an error.
type Runner struct {
	Context context.Context

	started int
	doneCh  chan error
	exitCh  chan struct{}
}

// NewRunner creates a runner with a default background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner whose tasks stop when ctx is done.
func NewRunnerWith(ctx context.Context) *Runner {
	return &Runner{
		Context: ctx,
		doneCh:  make(chan error, 1),
		exitCh:  make(chan struct{}),
	}
}

// HandleSignals cancels the tasks on Ctrl-C or SIGTERM. A second
// signal makes Wait return without waiting for the tasks.
func (r *Runner) HandleSignals() *Runner {
	ctx, cancel := context.WithCancel(r.Context)
	r.Context = ctx
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		glog.Infof("%v: stopping", sig)
		cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.exitCh)
	}()
	return r
}

// Go starts the tasks.
func (r *Runner) Go(tasks ...Runnable) *Runner {
	for _, task := range tasks {
		name := strconv.Itoa(r.started)
		if named, ok := task.(Named); ok {
			name = named.Name()
		}
		r.started++
		go r.run(name, task)
	}
	return r
}

func (r *Runner) run(name string, task Runnable) {
	glog.V(4).Infof("task %s started", name)
	err := task.Run(r.Context)
	glog.V(4).Infof("task %s stopped: %v", name, err)
	if err != nil && !errors.Is(err, context.Canceled) {
		err = fmt.Errorf("%s: %w", name, err)
	}
	r.doneCh <- err
}

// Wait waits for all tasks and aggregates their errors.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for ; r.started > 0; r.started-- {
		select {
		case <-r.exitCh:
			return errors.New("forced exit")
		case err := <-r.doneCh:
			if !errors.Is(err, context.Canceled) {
				errs.Add(err)
			}
		}
	}
	return errs.Aggregate()
}

// RunWithContextCancel runs fn, which can't be given a context.
// onCancel is called when ctx is done first and must make fn return.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	if onCancel != nil {
		onCancel()
	}
	<-errCh
	return context.Canceled
}

// RunWithContextCloser runs fn and closes closer afterwards, or
// earlier if ctx is done so blocking reads on it return.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	closed := false
	err := RunWithContextCancel(ctx, func() {
		closer.Close()
		closed = true
	}, fn)
	if !closed {
		closer.Close()
	}
	return err
}
