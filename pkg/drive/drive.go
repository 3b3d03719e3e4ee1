// Package drive defines the actuation interfaces consumed by the
// behavior controllers.
package drive

import (
	"context"
	"fmt"
)

// Mode selects the actuation policy of the motors.
type Mode int

// Drive modes.
const (
	ModeNone Mode = iota
	ModeSpeed
	ModePosition
	ModeStop
)

var modeNames = [...]string{"NONE", "SPEED", "POS", "STOP"}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Drive is the motor collaborator. Speeds are in encoder steps per second.
type Drive interface {
	SetSpeed(left, right int32) error
	SetMode(mode Mode) error
}

// TurnKind names a turn maneuver.
type TurnKind int

// Turn maneuvers.
const (
	TurnLeft180 TurnKind = iota
	TurnRight180
	TurnStop
)

func (k TurnKind) String() string {
	switch k {
	case TurnLeft180:
		return "LEFT180"
	case TurnRight180:
		return "RIGHT180"
	case TurnStop:
		return "STOP"
	}
	return fmt.Sprintf("TurnKind(%d)", int(k))
}

// Turner executes a turn maneuver and returns when it completes.
type Turner interface {
	Turn(ctx context.Context, kind TurnKind) error
}
