package link

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/linesumo/pkg/radio"
)

// Link level flags. The low bits carry radio.Flags.
const (
	flagReqAck = byte(radio.FlagsReqAck)
	flagAck    = byte(0x80)
)

// frame is a packet on air. Fields are varint encoded followed by the
// length prefixed payload.
type frame struct {
	Dst    radio.Addr
	Src    radio.Addr
	Flags  byte
	Origin uint32
	Seq    uint32
	Type   radio.MsgType

	Payload []byte
}

func (f *frame) isAck() bool {
	return f.Flags&flagAck != 0
}

func (f *frame) wantsAck() bool {
	return f.Flags&flagReqAck != 0 && f.Dst != radio.AddrBroadcast
}

func (f *frame) encode() ([]byte, error) {
	b := proto.NewBuffer(make([]byte, 0, 16+len(f.Payload)))
	for _, v := range []uint64{
		uint64(f.Dst),
		uint64(f.Src),
		uint64(f.Flags),
		uint64(f.Origin),
		uint64(f.Seq),
		uint64(f.Type),
	} {
		if err := b.EncodeVarint(v); err != nil {
			return nil, err
		}
	}
	if err := b.EncodeRawBytes(f.Payload); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func decodeFrame(pkt []byte) (*frame, error) {
	b := proto.NewBuffer(pkt)
	var fields [6]uint64
	for n := range fields {
		v, err := b.DecodeVarint()
		if err != nil {
			return nil, fmt.Errorf("frame header: %w", err)
		}
		fields[n] = v
	}
	for _, n := range []int{0, 1, 2, 5} {
		if fields[n] > math.MaxUint8 {
			return nil, fmt.Errorf("frame header field %d out of range: %d", n, fields[n])
		}
	}
	if fields[3] > math.MaxUint32 || fields[4] > math.MaxUint32 {
		return nil, fmt.Errorf("frame origin/seq out of range")
	}
	payload, err := b.DecodeRawBytes(true)
	if err != nil {
		return nil, fmt.Errorf("frame payload: %w", err)
	}
	if len(payload) > radio.MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}
	return &frame{
		Dst:     radio.Addr(fields[0]),
		Src:     radio.Addr(fields[1]),
		Flags:   byte(fields[2]),
		Origin:  uint32(fields[3]),
		Seq:     uint32(fields[4]),
		Type:    radio.MsgType(fields[5]),
		Payload: payload,
	}, nil
}

// ackFor builds the ack of f. The payload names the origin acked.
func ackFor(f *frame, src radio.Addr, origin uint32) *frame {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, f.Origin)
	return &frame{
		Dst:     f.Src,
		Src:     src,
		Flags:   flagAck,
		Origin:  origin,
		Seq:     f.Seq,
		Type:    f.Type,
		Payload: payload,
	}
}

func (f *frame) ackedOrigin() (uint32, bool) {
	if len(f.Payload) != 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(f.Payload), true
}
