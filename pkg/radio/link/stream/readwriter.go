// Package stream frames packets over byte streams such as a serial
// radio dongle or a TCP connection.
package stream

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// Sync starts every packet on the stream.
const Sync byte = 0x7e

// MaxPacketSize is the largest packet accepted.
const MaxPacketSize = 64

// ErrPacketTooLarge is returned when writing an oversized packet.
var ErrPacketTooLarge = errors.New("packet too large")

// ReadWriter implements link.PacketReadWriter.
// Each packet is a sync byte, a 1-byte length and the packet bytes.
// Readers skip garbage until the next sync byte.
type ReadWriter struct {
	rw io.ReadWriteCloser
	r  *bufio.Reader

	wlock sync.Mutex
}

// New creates a ReadWriter.
func New(s io.ReadWriteCloser) *ReadWriter {
	return &ReadWriter{rw: s, r: bufio.NewReader(s)}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	for {
		b, err := p.r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b != Sync {
			continue
		}
		size, err := p.r.ReadByte()
		if err != nil {
			return nil, err
		}
		if int(size) > MaxPacketSize {
			continue
		}
		pkt := make([]byte, size)
		if _, err := io.ReadFull(p.r, pkt); err != nil {
			return nil, err
		}
		return pkt, nil
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if len(pkt) > MaxPacketSize {
		return ErrPacketTooLarge
	}
	buf := make([]byte, 0, len(pkt)+2)
	buf = append(buf, Sync, byte(len(pkt)))
	buf = append(buf, pkt...)
	p.wlock.Lock()
	defer p.wlock.Unlock()
	_, err := p.rw.Write(buf)
	return err
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return p.rw.Close()
}
