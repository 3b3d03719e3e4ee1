// Package remote implements the remote board: it caches the values
// reported by the robot and shows them in a small menu.
package remote

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/robotalks/linesumo/pkg/radio"
)

// Snapshot is a copy of the cached values.
type Snapshot struct {
	SumoValid   bool
	SumoRunning bool
	ToFValid    bool
	ToF         [4]uint8
	BattValid   bool
	BattCentiV  uint16
}

// Values caches the values received from the robot. The radio task
// writes, the display task reads; the dirty flag tells the display to
// redraw.
type Values struct {
	lock  sync.RWMutex
	snap  Snapshot
	dirty atomic.Bool
}

// Snapshot returns a copy of the values.
func (v *Values) Snapshot() Snapshot {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return v.snap
}

// ConsumeDirty returns and clears the dirty flag.
func (v *Values) ConsumeDirty() bool {
	return v.dirty.Swap(false)
}

// Update applies an id/value. It returns false for unknown ids.
func (v *Values) Update(iv radio.IDValue) bool {
	v.lock.Lock()
	switch iv.ID {
	case radio.DataToFValues:
		v.snap.ToFValid = true
		for n := range v.snap.ToF {
			v.snap.ToF[n] = uint8(iv.Value >> (8 * n))
		}
	case radio.DataStartStop:
		v.snap.SumoValid = true
		v.snap.SumoRunning = iv.Value != 0
	case radio.DataBatteryV:
		v.snap.BattValid = true
		v.snap.BattCentiV = uint16(iv.Value)
	default:
		v.lock.Unlock()
		return false
	}
	v.lock.Unlock()
	v.dirty.Store(true)
	return true
}

// Invalidate marks the value of id as unknown.
func (v *Values) Invalidate(id radio.DataID) {
	v.lock.Lock()
	switch id {
	case radio.DataToFValues:
		v.snap.ToFValid = false
	case radio.DataStartStop:
		v.snap.SumoValid = false
	case radio.DataBatteryV:
		v.snap.BattValid = false
	}
	v.lock.Unlock()
	v.dirty.Store(true)
}

// HandleMessage implements radio.Handler. Query responses with known
// ids are claimed. Start/stop notifications update the cache but are
// left to later handlers.
func (v *Values) HandleMessage(_ context.Context, msg *radio.Message) (bool, error) {
	switch msg.Type {
	case radio.MsgQueryValueResponse:
		iv, err := msg.IDValue()
		if err != nil {
			return false, err
		}
		return v.Update(iv), nil
	case radio.MsgNotifyValue:
		iv, err := msg.IDValue()
		if err != nil {
			return false, err
		}
		if iv.ID == radio.DataStartStop {
			v.Update(iv)
		}
	}
	return false, nil
}
