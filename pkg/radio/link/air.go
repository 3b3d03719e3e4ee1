package link

import (
	"io"
	"sync"

	"github.com/golang/glog"
)

// Air is an in-process shared medium. Every packet written on a Port
// is delivered to all other ports. A port which is not read fast
// enough loses packets, like a radio out of range.
type Air struct {
	lock  sync.RWMutex
	ports map[*Port]struct{}
}

// Port is an endpoint attached to Air.
type Port struct {
	air    *Air
	ch     chan []byte
	done   chan struct{}
	closer sync.Once
}

const portBacklog = 32

// NewAir creates an Air.
func NewAir() *Air {
	return &Air{ports: make(map[*Port]struct{})}
}

// Port attaches a new endpoint.
func (a *Air) Port() *Port {
	p := &Port{air: a, ch: make(chan []byte, portBacklog), done: make(chan struct{})}
	a.lock.Lock()
	a.ports[p] = struct{}{}
	a.lock.Unlock()
	return p
}

func (a *Air) broadcast(from *Port, pkt []byte) {
	a.lock.RLock()
	defer a.lock.RUnlock()
	for p := range a.ports {
		if p == from {
			continue
		}
		select {
		case p.ch <- append([]byte(nil), pkt...):
		default:
			glog.V(2).Info("air: packet lost")
		}
	}
}

// ReadPacket implements PacketReadWriter.
func (p *Port) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.ch:
		return pkt, nil
	case <-p.done:
		return nil, io.EOF
	}
}

// WritePacket implements PacketReadWriter.
func (p *Port) WritePacket(pkt []byte) error {
	select {
	case <-p.done:
		return io.ErrClosedPipe
	default:
	}
	p.air.broadcast(p, pkt)
	return nil
}

// Close implements io.Closer.
func (p *Port) Close() error {
	p.closer.Do(func() {
		p.air.lock.Lock()
		delete(p.air.ports, p)
		p.air.lock.Unlock()
		close(p.done)
	})
	return nil
}
