// Package sh provides the interactive console of the robot and the
// remote board. Lines are executed by the command bridge, so the
// console and the radio stdio accept the same commands.
package sh

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/linesumo/pkg/bridge"
	fx "github.com/robotalks/linesumo/pkg/framework"
)

// KeyPresser receives navigation keys, see remote.ParseEvent.
type KeyPresser interface {
	Press(key string) error
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool

	Shell  *ishell.Shell
	Bridge *bridge.Bridge
	Keys   KeyPresser
}

const prompt = "robo > "

var evalOnly bool

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// New creates a new shell over b. keys may be nil if there is no
// display to navigate.
func New(b *bridge.Bridge, keys KeyPresser) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
		Bridge:      b,
		Keys:        keys,
	}
	s.Shell.SetPrompt(prompt)
	s.Shell.NotFound(func(c *ishell.Context) {
		s.run(c, c.RawArgs)
	})
	for _, cmd := range s.commands() {
		s.Shell.AddCmd(cmd)
	}
	return s
}

func (s *Shell) commands() []*ishell.Cmd {
	cmds := []*ishell.Cmd{
		{Name: "help", Help: "print help of all groups", Func: s.bridgeCmd("help")},
		{Name: "status", Help: "print status of all groups", Func: s.bridgeCmd("status")},
		{Name: "btn", Help: "N [press|long|release]", Func: s.bridgeCmd("btn")},
	}
	for _, name := range s.Bridge.Groups() {
		cmds = append(cmds, &ishell.Cmd{
			Name: name,
			Help: name + " help",
			Func: s.bridgeCmd(name),
		})
	}
	if s.Keys != nil {
		cmds = append(cmds, &ishell.Cmd{
			Name: "key",
			Help: "up|down|left|right|enter|refresh",
			Func: s.bridgeCmd("key"),
		})
	}
	return cmds
}

func (s *Shell) bridgeCmd(name string) func(*ishell.Context) {
	return func(c *ishell.Context) {
		s.run(c, append([]string{name}, c.Args...))
	}
}

func (s *Shell) run(c *ishell.Context, args []string) {
	var out bytes.Buffer
	err := s.Exec(&out, args)
	if out.Len() > 0 {
		c.Print(out.String())
	}
	if err != nil {
		c.Err(err)
	}
}

// Exec executes one command line split into args.
func (s *Shell) Exec(w io.Writer, args []string) error {
	if len(args) == 0 {
		return nil
	}
	switch strings.ToLower(args[0]) {
	case "btn":
		ev, err := ParseButton(args[1:])
		if err != nil {
			return err
		}
		s.Bridge.HandleButton(ev)
		return nil
	case "key":
		if s.Keys == nil || len(args) != 2 {
			return fmt.Errorf("key: %w", bridge.ErrBadFormat)
		}
		return s.Keys.Press(args[1])
	}
	return s.Bridge.Exec(w, strings.Join(args, " "))
}

// ParseButton parses "N [press|long|release]".
func ParseButton(args []string) (bridge.ButtonEvent, error) {
	var ev bridge.ButtonEvent
	if len(args) < 1 || len(args) > 2 {
		return ev, fmt.Errorf("btn: %w", bridge.ErrBadFormat)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > bridge.NumButtons {
		return ev, fmt.Errorf("btn %q: %w", args[0], bridge.ErrBadFormat)
	}
	ev.Button = n
	if len(args) == 2 {
		switch args[1] {
		case "press":
			ev.Action = bridge.Pressed
		case "long":
			ev.Action = bridge.LongPressed
		case "release":
			ev.Action = bridge.Released
		default:
			return ev, fmt.Errorf("btn action %q: %w", args[1], bridge.ErrBadFormat)
		}
	}
	return ev, nil
}

// Run runs the shell, args are executed as a single command instead.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Serve runs tasks until a signal arrives. With a shell, exiting the
// shell stops the tasks as well.
func Serve(s *Shell, args []string, tasks ...fx.Runnable) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := fx.NewRunnerWith(ctx).HandleSignals()
	runner.Go(tasks...)
	if s != nil {
		go func() {
			s.Run(args...)
			cancel()
		}()
	}
	return runner.Wait()
}
