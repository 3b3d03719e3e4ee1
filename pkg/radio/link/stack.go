// Package link implements the radio stack over packet read/writers:
// bounded in/out queues, acknowledge with retries, duplicate
// suppression and address filtering.
package link

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/linesumo/pkg/framework"
	"github.com/robotalks/linesumo/pkg/metrics"
	"github.com/robotalks/linesumo/pkg/radio"
)

var (
	// ErrQueueFull is returned when the out queue has no room.
	ErrQueueFull = errors.New("radio queue full")
	// ErrNotReady is returned before the transceiver is powered up.
	ErrNotReady = errors.New("radio not powered up")
	// ErrPayloadTooLarge is returned for payloads over radio.MaxPayloadSize.
	ErrPayloadTooLarge = errors.New("radio payload too large")
)

// PacketReadWriter moves whole packets. Close unblocks ReadPacket.
type PacketReadWriter interface {
	ReadPacket() ([]byte, error)
	WritePacket([]byte) error
	io.Closer
}

// Config tunes the stack.
type Config struct {
	QueueSize    int
	RetryCount   int
	RetryTimeout time.Duration
}

// DefaultConfig is used by NewStack.
var DefaultConfig = Config{
	QueueSize:    8,
	RetryCount:   3,
	RetryTimeout: 50 * time.Millisecond,
}

type pendingFrame struct {
	frame    *frame
	pkt      []byte
	retries  int
	deadline time.Time
}

// Stack implements radio.Transport.
type Stack struct {
	Config
	RW    PacketReadWriter
	Clock fx.Clock

	origin  uint32
	addr    atomic.Uint32
	seq     atomic.Uint32
	powered atomic.Bool

	rxCh chan *frame
	txCh chan *frame

	// owned by Process
	pending map[uint32]*pendingFrame
	lastSeq map[uint32]uint32
}

// NewStack creates a Stack over rw.
func NewStack(rw PacketReadWriter) *Stack {
	return NewStackWith(DefaultConfig, rw)
}

// NewStackWith creates a Stack with conf.
func NewStackWith(conf Config, rw PacketReadWriter) *Stack {
	if conf.QueueSize <= 0 {
		conf.QueueSize = DefaultConfig.QueueSize
	}
	s := &Stack{
		Config:  conf,
		RW:      rw,
		Clock:   fx.SystemClock,
		origin:  rand.Uint32(),
		rxCh:    make(chan *frame, conf.QueueSize),
		txCh:    make(chan *frame, conf.QueueSize),
		pending: make(map[uint32]*pendingFrame),
		lastSeq: make(map[uint32]uint32),
	}
	s.addr.Store(uint32(radio.AddrBroadcast))
	return s
}

// Name implements Named.
func (s *Stack) Name() string {
	return "radio-rx"
}

// Addr implements radio.Addressable.
func (s *Stack) Addr() radio.Addr {
	return radio.Addr(s.addr.Load())
}

// SetAddr implements radio.Addressable.
func (s *Stack) SetAddr(addr radio.Addr) {
	s.addr.Store(uint32(addr))
	glog.V(2).Infof("radio: node address %s", addr)
}

// PowerUp implements radio.Transport.
func (s *Stack) PowerUp(context.Context) error {
	s.powered.Store(true)
	glog.Infof("radio: powered up, node address %s", s.Addr())
	return nil
}

// SendPayload implements radio.Transport. It only queues the packet,
// Process writes it out.
func (s *Stack) SendPayload(payload []byte, t radio.MsgType, dst radio.Addr, flags radio.Flags) error {
	if !s.powered.Load() {
		return ErrNotReady
	}
	if len(payload) > radio.MaxPayloadSize {
		return ErrPayloadTooLarge
	}
	f := &frame{
		Dst:     dst,
		Src:     s.Addr(),
		Flags:   byte(flags) & flagReqAck,
		Origin:  s.origin,
		Seq:     s.seq.Add(1),
		Type:    t,
		Payload: append([]byte(nil), payload...),
	}
	select {
	case s.txCh <- f:
		return nil
	default:
		metrics.RecordFrame("tx", metrics.ResultDropped)
		return ErrQueueFull
	}
}

// Run implements Runnable. It reads packets into the in queue.
func (s *Stack) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, s.RW, func() error {
		for {
			pkt, err := s.RW.ReadPacket()
			if err != nil {
				return err
			}
			s.receive(pkt)
		}
	})
}

func (s *Stack) receive(pkt []byte) {
	f, err := decodeFrame(pkt)
	if err != nil {
		glog.V(2).Infof("radio: bad frame: %v", err)
		metrics.RecordFrame("rx", metrics.ResultError)
		return
	}
	if f.Origin == s.origin {
		return
	}
	if own := s.Addr(); f.Dst != own && f.Dst != radio.AddrBroadcast && own != radio.AddrBroadcast {
		return
	}
	select {
	case s.rxCh <- f:
	default:
		glog.Warningf("radio: in queue full, dropped %s from %s", f.Type, f.Src)
		metrics.RecordFrame("rx", metrics.ResultDropped)
	}
}

// Process implements radio.Transport.
func (s *Stack) Process(ctx context.Context, h radio.Handler) error {
	var errs fx.AggregatedError
	now := s.Clock.Now()
	for n := len(s.rxCh); n > 0; n-- {
		errs.Add(s.processInbound(ctx, <-s.rxCh, h))
	}
	for n := len(s.txCh); n > 0; n-- {
		errs.Add(s.processOutbound(<-s.txCh, now))
	}
	errs.Add(s.processRetries(now))
	return errs.Aggregate()
}

// Pending returns the number of frames waiting for an ack.
func (s *Stack) Pending() int {
	return len(s.pending)
}

func (s *Stack) processInbound(ctx context.Context, f *frame, h radio.Handler) error {
	if f.isAck() {
		if origin, ok := f.ackedOrigin(); ok && origin == s.origin {
			if _, found := s.pending[f.Seq]; found {
				delete(s.pending, f.Seq)
				glog.V(4).Infof("radio: ack seq %d from %s", f.Seq, f.Src)
			}
		}
		return nil
	}
	var err error
	if f.wantsAck() {
		err = s.write(ackFor(f, s.Addr(), s.origin))
	}
	if last, seen := s.lastSeq[f.Origin]; seen && last == f.Seq {
		metrics.RecordFrame("rx", metrics.ResultDup)
		return err
	}
	s.lastSeq[f.Origin] = f.Seq
	metrics.RecordFrame("rx", metrics.ResultOK)
	msg := &radio.Message{
		Type:    f.Type,
		Src:     f.Src,
		Dst:     f.Dst,
		Flags:   radio.Flags(f.Flags & flagReqAck),
		Payload: f.Payload,
	}
	if _, herr := h.HandleMessage(ctx, msg); herr != nil {
		glog.Warningf("radio: handle %s: %v", msg, herr)
	}
	return err
}

func (s *Stack) processOutbound(f *frame, now time.Time) error {
	pkt, err := f.encode()
	if err == nil {
		err = s.RW.WritePacket(pkt)
	}
	if err != nil {
		metrics.RecordFrame("tx", metrics.ResultError)
		return err
	}
	metrics.RecordFrame("tx", metrics.ResultOK)
	if f.wantsAck() {
		s.pending[f.Seq] = &pendingFrame{
			frame:    f,
			pkt:      pkt,
			retries:  s.RetryCount,
			deadline: now.Add(s.RetryTimeout),
		}
	}
	return nil
}

func (s *Stack) processRetries(now time.Time) error {
	var errs fx.AggregatedError
	for seq, p := range s.pending {
		if now.Before(p.deadline) {
			continue
		}
		if p.retries <= 0 {
			delete(s.pending, seq)
			glog.Warningf("radio: no ack for %s seq %d to %s", p.frame.Type, seq, p.frame.Dst)
			metrics.RecordFrame("tx", metrics.ResultExpired)
			continue
		}
		p.retries--
		p.deadline = now.Add(s.RetryTimeout)
		metrics.RetriesTotal.Inc()
		errs.Add(s.RW.WritePacket(p.pkt))
	}
	return errs.Aggregate()
}

func (s *Stack) write(f *frame) error {
	pkt, err := f.encode()
	if err != nil {
		return err
	}
	return s.RW.WritePacket(pkt)
}
