// Package device reads Linux joystick devices.
package device

import (
	"errors"
	"io"
)

// ErrUnsupported is returned where joystick devices are not available.
var ErrUnsupported = errors.New("joystick devices not supported on this platform")

// Event is a joystick event, either an AxisEvent or a ButtonEvent.
type Event interface {
	// IsInit is set on the synthetic events reporting the initial state.
	IsInit() bool
	// Index returns either Axis or Button index.
	Index() int
}

// AxisEvent reports a new axis position in [-32767, 32767].
type AxisEvent interface {
	Event
	Value() int
}

// ButtonEvent reports a button change.
type ButtonEvent interface {
	Event
	Pressed() bool
}

// Device is an opened joystick.
type Device interface {
	io.Closer
	Index() int
	Name() string
	// ReadEvent blocks until the next event.
	ReadEvent() (Event, error)
}
