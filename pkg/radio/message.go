// Package radio implements the application layer of the packet radio
// link: message types, id/value encoding, inbound dispatch and the
// radio task state machine.
package radio

import (
	"encoding/binary"
	"fmt"
)

// MsgType is the application message type byte.
type MsgType byte

// Application message types.
const (
	MsgStdIn              MsgType = 0x00
	MsgStdOut             MsgType = 0x01
	MsgStdErr             MsgType = 0x02
	MsgAccel              MsgType = 0x03
	MsgData               MsgType = 0x04
	MsgJoystickXY         MsgType = 0x05
	MsgJoystickBtn        MsgType = 0x54
	MsgRequestSetValue    MsgType = 0x55
	MsgNotifyValue        MsgType = 0x56
	MsgQueryValue         MsgType = 0x57
	MsgQueryValueResponse MsgType = 0x58
	MsgLapPoint           MsgType = 0xAC
)

var msgTypeNames = map[MsgType]string{
	MsgStdIn:              "STDIN",
	MsgStdOut:             "STDOUT",
	MsgStdErr:             "STDERR",
	MsgAccel:              "ACCEL",
	MsgData:               "DATA",
	MsgJoystickXY:         "JOYSTICK_XY",
	MsgJoystickBtn:        "JOYSTICK_BTN",
	MsgRequestSetValue:    "REQUEST_SET_VALUE",
	MsgNotifyValue:        "NOTIFY_VALUE",
	MsgQueryValue:         "QUERY_VALUE",
	MsgQueryValueResponse: "QUERY_VALUE_RESPONSE",
	MsgLapPoint:           "LAP_POINT",
}

func (t MsgType) String() string {
	if name, ok := msgTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MSG(0x%02x)", byte(t))
}

// IsIDValue reports whether the type belongs to the id/value family.
func (t MsgType) IsIDValue() bool {
	switch t {
	case MsgRequestSetValue, MsgNotifyValue, MsgQueryValue, MsgQueryValueResponse:
		return true
	}
	return false
}

// DataID identifies the value carried by id/value messages.
type DataID uint16

// Data identifiers.
const (
	DataNone       DataID = 0
	DataToFValues  DataID = 4
	DataBatteryV   DataID = 7
	DataPIDFwSpeed DataID = 8
	DataStartStop  DataID = 9
)

func (id DataID) String() string {
	switch id {
	case DataNone:
		return "NONE"
	case DataToFValues:
		return "TOF_VALUES"
	case DataBatteryV:
		return "BATTERY_V"
	case DataPIDFwSpeed:
		return "PID_FW_SPEED"
	case DataStartStop:
		return "START_STOP"
	}
	return fmt.Sprintf("ID(%d)", uint16(id))
}

// Addr is a node short address.
type Addr uint8

// AddrBroadcast reaches every node.
const AddrBroadcast Addr = 0xff

func (a Addr) String() string {
	return fmt.Sprintf("0x%02x", uint8(a))
}

// Flags are per packet options.
type Flags uint8

// Packet flags.
const (
	FlagsNone   Flags = 0
	FlagsReqAck Flags = 1 << 0
)

// Message is a received application message.
type Message struct {
	Type    MsgType
	Src     Addr
	Dst     Addr
	Flags   Flags
	Payload []byte
}

// IDValue is the decoded payload of the id/value family.
type IDValue struct {
	ID    DataID
	Value uint32
}

// Payload sizes of the id/value family.
const (
	QueryPayloadSize   = 2
	IDValuePayloadSize = 6
)

// ErrShortPayload is returned when a payload is too short to decode.
type ErrShortPayload struct {
	Type MsgType
	Size int
}

// Error implements error.
func (e *ErrShortPayload) Error() string {
	return fmt.Sprintf("%s payload too short: %d bytes", e.Type, e.Size)
}

// EncodeIDValue encodes id and value for msgType. Queries carry the
// 16-bit id only, all other types the id followed by the 32-bit value,
// both little endian.
func EncodeIDValue(msgType MsgType, id DataID, value uint32) []byte {
	if msgType == MsgQueryValue {
		buf := make([]byte, QueryPayloadSize)
		binary.LittleEndian.PutUint16(buf, uint16(id))
		return buf
	}
	buf := make([]byte, IDValuePayloadSize)
	binary.LittleEndian.PutUint16(buf, uint16(id))
	binary.LittleEndian.PutUint32(buf[2:], value)
	return buf
}

// DecodeIDValue is the reverse of EncodeIDValue.
func DecodeIDValue(msgType MsgType, payload []byte) (IDValue, error) {
	need := IDValuePayloadSize
	if msgType == MsgQueryValue {
		need = QueryPayloadSize
	}
	if len(payload) < need {
		return IDValue{}, &ErrShortPayload{Type: msgType, Size: len(payload)}
	}
	v := IDValue{ID: DataID(binary.LittleEndian.Uint16(payload))}
	if msgType != MsgQueryValue {
		v.Value = binary.LittleEndian.Uint32(payload[2:])
	}
	return v, nil
}

// IDValue decodes the message payload.
func (m *Message) IDValue() (IDValue, error) {
	return DecodeIDValue(m.Type, m.Payload)
}

func (m *Message) String() string {
	return fmt.Sprintf("%s %s->%s %x", m.Type, m.Src, m.Dst, m.Payload)
}
