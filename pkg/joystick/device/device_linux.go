//go:build linux

package device

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

const (
	iocGNAME uint = 0x80ff6a13

	evButton uint8 = 0x01
	evAxis   uint8 = 0x02
	evInit   uint8 = 0x80
)

// jsEvent is struct js_event of linux/joystick.h.
type jsEvent struct {
	Time   uint32
	Val    int16
	Type   uint8
	Number uint8
}

func (e *jsEvent) IsInit() bool { return e.Type&evInit != 0 }
func (e *jsEvent) Index() int { return int(e.Number) }

type axisEvent struct{ *jsEvent }

func (e axisEvent) Value() int { return int(e.Val) }

type buttonEvent struct{ *jsEvent }

func (e buttonEvent) Pressed() bool { return e.Val != 0 }

type device struct {
	file  *os.File
	index int
	name  string
}

// Open opens /dev/input/js<index>.
func Open(index int) (Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	var buf [256]byte
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uintptr(iocGNAME), uintptr(unsafe.Pointer(&buf))); errno != 0 {
		f.Close()
		return nil, errno
	}
	name := buf[:]
	if pos := bytes.IndexByte(name, 0); pos >= 0 {
		name = name[:pos]
	}
	return &device{file: f, index: index, name: string(name)}, nil
}

// Detect opens the first available device.
func Detect() (Device, error) {
	for index := 0; index < 32; index++ {
		d, err := Open(index)
		if os.IsNotExist(err) {
			continue
		}
		return d, err
	}
	return nil, os.ErrNotExist
}

func (d *device) Close() error { return d.file.Close() }
func (d *device) Index() int { return d.index }
func (d *device) Name() string { return d.name }

func (d *device) ReadEvent() (Event, error) {
	ev := &jsEvent{}
	if err := binary.Read(d.file, binary.LittleEndian, ev); err != nil {
		return nil, err
	}
	switch ev.Type &^ evInit {
	case evAxis:
		return axisEvent{ev}, nil
	case evButton:
		return buttonEvent{ev}, nil
	}
	return ev, nil
}
