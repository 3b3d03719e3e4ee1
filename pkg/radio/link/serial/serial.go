// Package serial opens a radio dongle on a serial port.
package serial

import (
	"go.bug.st/serial"

	"github.com/robotalks/linesumo/pkg/radio/link/stream"
)

// DefaultBaudRate is used when none is given.
const DefaultBaudRate = 115200

// Open opens the port and frames packets with stream.ReadWriter.
func Open(name string, baudRate int) (*stream.ReadWriter, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	return stream.New(port), nil
}

// Ports lists serial ports present on the host.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
