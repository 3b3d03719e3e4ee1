// Package bridge translates operator commands and button events into
// controller requests, and renders controller and radio status as text.
package bridge

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/robotalks/linesumo/pkg/metrics"
	"github.com/robotalks/linesumo/pkg/radio"
)

var (
	// ErrBadFormat is returned when an argument does not parse.
	ErrBadFormat = errors.New("bad format")
	// ErrUnknownCommand is returned when no group handles the command.
	ErrUnknownCommand = errors.New("unknown command")
)

// Behavior is a controller which can be started and stopped.
type Behavior interface {
	Start()
	Stop()
	Toggle()
	IsRunning() bool
	StateName() string
}

// Radio is the part of the radio app used by commands.
type Radio interface {
	DestAddr() radio.Addr
	SetDestAddr(radio.Addr)
	NodeAddr() (radio.Addr, error)
	SetNodeAddr(radio.Addr) error
	SendData(val byte) error
	SendStdio(t radio.MsgType, text string) error
	SendIDValue(t radio.MsgType, id radio.DataID, value uint32, dst radio.Addr, flags radio.Flags) error
}

// LapResetter forgets the current lap.
type LapResetter interface {
	Reset()
}

// Bridge holds the collaborators. Nil collaborators disable their
// command groups.
type Bridge struct {
	Line  Behavior
	Sumo  Behavior
	Radio Radio
	Laps  LapResetter
	// Out receives event and message output.
	Out StatusSink

	val atomic.Int32
}

// StatusSink receives text for the console.
type StatusSink interface {
	SendString(s string) error
}

type command func(b *Bridge, w io.Writer, args []string) error

type group struct {
	name    string
	enabled func(b *Bridge) bool
	help    func(w io.Writer)
	status  func(b *Bridge, w io.Writer)
	cmds    map[string]command
}

// Exec runs one command line and writes the output to w. A command
// either applies completely or changes nothing.
func (b *Bridge) Exec(w io.Writer, cmdline string) (err error) {
	args := strings.Fields(cmdline)
	if len(args) == 0 {
		return nil
	}
	name, label := strings.ToLower(args[0]), "unknown"
	defer func() { metrics.RecordCommand(label, err) }()

	switch name {
	case "help", "status":
		label = name
	}
	switch name {
	case "help":
		for _, g := range b.groups() {
			g.help(w)
		}
		return nil
	case "status":
		for _, g := range b.groups() {
			g.status(b, w)
		}
		return nil
	}
	for _, g := range b.groups() {
		if g.name != name {
			continue
		}
		label = name
		if len(args) == 1 || args[1] == "help" {
			g.help(w)
			return nil
		}
		if args[1] == "status" {
			g.status(b, w)
			return nil
		}
		if cmd := g.cmds[args[1]]; cmd != nil {
			return cmd(b, w, args[2:])
		}
		break
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, cmdline)
}

// Groups lists the enabled command groups.
func (b *Bridge) Groups() []string {
	var names []string
	for _, g := range b.groups() {
		names = append(names, g.name)
	}
	return names
}

// Value returns the number set with "shell val".
func (b *Bridge) Value() int32 {
	return b.val.Load()
}

func (b *Bridge) groups() []*group {
	list := make([]*group, 0, len(allGroups))
	for _, g := range allGroups {
		if g.enabled == nil || g.enabled(b) {
			list = append(list, g)
		}
	}
	return list
}

func helpLine(w io.Writer, cmd, text string) {
	fmt.Fprintf(w, "%-20s %s\n", cmd, text)
}

func statusLine(w io.Writer, key, value string) {
	fmt.Fprintf(w, "%-20s %s\n", key, value)
}

var allGroups = []*group{
	{
		name: "shell",
		help: func(w io.Writer) {
			helpLine(w, "shell", "Shell commands")
			helpLine(w, "  help|status", "Print help or status information")
			helpLine(w, "  val <num>", "Assign number value")
		},
		status: func(b *Bridge, w io.Writer) {
			statusLine(w, "shell", "")
			statusLine(w, "  val", strconv.Itoa(int(b.val.Load())))
		},
		cmds: map[string]command{
			"val": func(b *Bridge, w io.Writer, args []string) error {
				if len(args) != 1 {
					return badNumber(w)
				}
				v, err := strconv.ParseInt(args[0], 0, 32)
				if err != nil {
					return badNumber(w)
				}
				b.val.Store(int32(v))
				return nil
			},
		},
	},
	behaviorGroup("line", "Line following", func(b *Bridge) Behavior { return b.Line }),
	behaviorGroup("sumo", "Sumo", func(b *Bridge) Behavior { return b.Sumo }),
	{
		name:    "app",
		enabled: func(b *Bridge) bool { return b.Radio != nil },
		help: func(w io.Writer) {
			helpLine(w, "app", "Group of application commands")
			helpLine(w, "  help", "Shows radio help or status")
			helpLine(w, "  saddr 0x<addr>", "Set source node address")
			helpLine(w, "  daddr 0x<addr>", "Set destination node address")
			helpLine(w, "  send val <val>", "Set a value to the destination node")
			helpLine(w, "  send (in/out/err)", "Send a string to stdio using the wireless transceiver")
		},
		status: func(b *Bridge, w io.Writer) {
			statusLine(w, "app", "")
			if addr, err := b.Radio.NodeAddr(); err == nil {
				statusLine(w, "  node addr", addr.String())
			}
			statusLine(w, "  dest addr", b.Radio.DestAddr().String())
		},
		cmds: map[string]command{
			"saddr": func(b *Bridge, w io.Writer, args []string) error {
				addr, err := parseAddr(w, args)
				if err != nil {
					return err
				}
				return b.Radio.SetNodeAddr(addr)
			},
			"daddr": func(b *Bridge, w io.Writer, args []string) error {
				addr, err := parseAddr(w, args)
				if err != nil {
					return err
				}
				b.Radio.SetDestAddr(addr)
				return nil
			},
			"send": sendCommand,
		},
	},
	{
		name:    "reset",
		enabled: func(b *Bridge) bool { return b.Laps != nil },
		help: func(w io.Writer) {
			helpLine(w, "reset labtime", "Reset lab time")
		},
		status: func(*Bridge, io.Writer) {},
		cmds: map[string]command{
			"labtime": func(b *Bridge, w io.Writer, args []string) error {
				b.Laps.Reset()
				return nil
			},
		},
	},
}

func behaviorGroup(name, title string, get func(*Bridge) Behavior) *group {
	return &group{
		name:    name,
		enabled: func(b *Bridge) bool { return get(b) != nil },
		help: func(w io.Writer) {
			helpLine(w, name, title+" commands")
			helpLine(w, "  help|status", "Print help or status information")
			helpLine(w, "  start|stop", "Start or stop "+strings.ToLower(title))
		},
		status: func(b *Bridge, w io.Writer) {
			statusLine(w, name, "")
			statusLine(w, "  state", get(b).StateName())
		},
		cmds: map[string]command{
			"start": func(b *Bridge, _ io.Writer, _ []string) error {
				get(b).Start()
				return nil
			},
			"stop": func(b *Bridge, _ io.Writer, _ []string) error {
				get(b).Stop()
				return nil
			},
		},
	}
}

func sendCommand(b *Bridge, w io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: app send", ErrUnknownCommand)
	}
	var t radio.MsgType
	switch args[0] {
	case "val":
		if len(args) != 2 {
			return badNumber(w)
		}
		v, err := strconv.ParseUint(args[1], 10, 8)
		if err != nil {
			return badNumber(w)
		}
		return b.Radio.SendData(byte(v))
	case "in":
		t = radio.MsgStdIn
	case "out":
		t = radio.MsgStdOut
	case "err":
		t = radio.MsgStdErr
	default:
		return fmt.Errorf("%w: app send %s", ErrUnknownCommand, args[0])
	}
	if err := b.Radio.SendStdio(t, strings.Join(args[1:], " ")+"\n"); err != nil {
		fmt.Fprintln(w, "failed!")
		return err
	}
	return nil
}

func parseAddr(w io.Writer, args []string) (radio.Addr, error) {
	if len(args) != 1 {
		fmt.Fprintln(w, "ERR: wrong address")
		return 0, ErrBadFormat
	}
	addr, err := radio.ParseAddr(args[0])
	if err != nil {
		fmt.Fprintln(w, "ERR: wrong address")
		return 0, ErrBadFormat
	}
	return addr, nil
}

func badNumber(w io.Writer) error {
	fmt.Fprintln(w, "ERR: wrong number format")
	return ErrBadFormat
}
