package link

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/robotalks/linesumo/pkg/radio/link/mqtt"
	"github.com/robotalks/linesumo/pkg/radio/link/serial"
	"github.com/robotalks/linesumo/pkg/radio/link/stream"
	"github.com/robotalks/linesumo/pkg/radio/link/websocket"
)

// DefaultAir is shared by all air:// links in the process.
var DefaultAir = NewAir()

// Open opens a packet link from URL:
//
//	air://                      in-process, DefaultAir
//	serial:///dev/ttyUSB0?baud=115200
//	tcp://host:port             stream framing over TCP
//	ws://host:port/path         websocket hub
//	mqtt://host:port/prefix?topic=air
func Open(rawURL string) (PacketReadWriter, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "air", "":
		return DefaultAir.Port(), nil
	case "serial":
		baud := 0
		if s := u.Query().Get("baud"); s != "" {
			if baud, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("invalid baud %q: %w", s, err)
			}
		}
		return serial.Open(u.Path, baud)
	case "tcp":
		conn, err := net.Dial("tcp", u.Host)
		if err != nil {
			return nil, err
		}
		return stream.New(conn), nil
	case "ws", "wss":
		return websocket.Dial(rawURL)
	case "mqtt", "mqtts":
		q, err := mqtt.NewQueueFromURL(rawURL)
		if err != nil {
			return nil, err
		}
		if err := q.Connect(); err != nil {
			return nil, err
		}
		return &mqttLink{ReadWriter: mqtt.NewReadWriter(q, u.Query().Get("topic"))}, nil
	}
	return nil, fmt.Errorf("unsupported radio link %q", rawURL)
}

// mqttLink also disconnects the client on Close.
type mqttLink struct {
	*mqtt.ReadWriter
}

func (l *mqttLink) Close() error {
	err := l.ReadWriter.Close()
	l.Queue.Close()
	return err
}
