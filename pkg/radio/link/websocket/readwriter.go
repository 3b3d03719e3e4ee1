// Package websocket carries radio packets as binary websocket
// messages, relayed by a Hub.
package websocket

import (
	"golang.org/x/net/websocket"
)

// ReadWriter implements link.PacketReadWriter.
type ReadWriter struct {
	Conn *websocket.Conn
}

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	conn.PayloadType = websocket.BinaryFrame
	return &ReadWriter{Conn: conn}
}

// Dial connects to a hub.
func Dial(url string) (*ReadWriter, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive(p.Conn, &pkt)
	return
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send(p.Conn, pkt)
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return p.Conn.Close()
}
