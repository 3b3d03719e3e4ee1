package bridge

import (
	"errors"
	"io"
	"time"

	fx "github.com/robotalks/linesumo/pkg/framework"
)

// ConsolePeriod is the cycle of the console task.
const ConsolePeriod = 10 * time.Millisecond

// ConsoleQueueSize is the number of pending output strings.
const ConsoleQueueSize = 5

// ErrQueueFull is returned when the console queue has no room.
var ErrQueueFull = errors.New("console queue full")

// Console queues text from any task and writes it from its own task,
// so controllers never block on the terminal.
type Console struct {
	Out io.Writer

	queue chan string
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{Out: out, queue: make(chan string, ConsoleQueueSize)}
}

// Name implements Named.
func (c *Console) Name() string {
	return "console"
}

// SendString queues s. It never blocks.
func (c *Console) SendString(s string) error {
	select {
	case c.queue <- s:
		return nil
	default:
		return ErrQueueFull
	}
}

// Control implements Controller. It writes everything queued so far.
func (c *Console) Control(fx.ControlContext) error {
	return c.Flush()
}

// Flush writes all queued strings.
func (c *Console) Flush() error {
	for {
		select {
		case s := <-c.queue:
			if _, err := io.WriteString(c.Out, s); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}
