package mqtt

import (
	"io"
	"sync"

	"github.com/golang/glog"
)

// DefaultAirTopic is the topic shared by all nodes.
const DefaultAirTopic = "air"

const backlog = 32

// ReadWriter implements link.PacketReadWriter on one topic. Packets
// published by this node come back from the broker and are left to
// the stack to drop.
type ReadWriter struct {
	Queue *Queue
	Topic string

	sub      *Subscription
	packetCh chan []byte
	done     chan struct{}
	closer   sync.Once
}

// NewReadWriter subscribes to topic.
func NewReadWriter(q *Queue, topic string) *ReadWriter {
	if topic == "" {
		topic = DefaultAirTopic
	}
	p := &ReadWriter{
		Queue:    q,
		Topic:    topic,
		packetCh: make(chan []byte, backlog),
		done:     make(chan struct{}),
	}
	p.sub = q.Sub(topic, p.handleMsg)
	return p
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.done:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.Topic, pkt)
	token.Wait()
	return token.Error()
}

// Close unsubscribes and unblocks ReadPacket.
func (p *ReadWriter) Close() (err error) {
	p.closer.Do(func() {
		close(p.done)
		err = p.sub.Close()
	})
	return
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- append([]byte(nil), payload...):
	case <-p.done:
	default:
		glog.V(2).Infof("mqtt: %s backlog full, packet lost", p.Topic)
	}
}
