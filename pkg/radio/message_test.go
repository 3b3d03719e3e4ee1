package radio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeIDValue(t *testing.T) {
	cases := []struct {
		name    string
		msgType MsgType
		id      DataID
		value   uint32
		payload []byte
	}{
		{"query", MsgQueryValue, DataStartStop, 0, []byte{0x09, 0x00}},
		{"query ignores value", MsgQueryValue, DataStartStop, 77, []byte{0x09, 0x00}},
		{"notify", MsgNotifyValue, DataStartStop, 1, []byte{0x09, 0x00, 0x01, 0x00, 0x00, 0x00}},
		{"response", MsgQueryValueResponse, DataBatteryV, 0x01020304, []byte{0x07, 0x00, 0x04, 0x03, 0x02, 0x01}},
		{"set", MsgRequestSetValue, DataID(0x1234), 0, []byte{0x34, 0x12, 0, 0, 0, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			payload := EncodeIDValue(c.msgType, c.id, c.value)
			require.Equal(t, c.payload, payload)
			v, err := DecodeIDValue(c.msgType, payload)
			require.NoError(t, err)
			require.Equal(t, c.id, v.ID)
			if c.msgType != MsgQueryValue {
				require.Equal(t, c.value, v.Value)
			}
		})
	}
}

func TestDecodeShortPayload(t *testing.T) {
	_, err := DecodeIDValue(MsgNotifyValue, []byte{0x09, 0x00})
	require.Error(t, err)
	require.IsType(t, &ErrShortPayload{}, err)
	_, err = DecodeIDValue(MsgQueryValue, []byte{0x09})
	require.Error(t, err)
}

func TestParseAddr(t *testing.T) {
	cases := []struct {
		in   string
		addr Addr
		ok   bool
	}{
		{"0x12", 0x12, true},
		{"ff", 0xff, true},
		{" 0X0a ", 0x0a, true},
		{"0x100", 0, false},
		{"0xzz", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			addr, err := ParseAddr(c.in)
			if !c.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.addr, addr)
		})
	}
}

func TestNames(t *testing.T) {
	require.Equal(t, "LAP_POINT", MsgLapPoint.String())
	require.Equal(t, "MSG(0x99)", MsgType(0x99).String())
	require.Equal(t, "START_STOP", DataStartStop.String())
	require.Equal(t, "0xff", AddrBroadcast.String())
	require.True(t, MsgQueryValue.IsIDValue())
	require.False(t, MsgData.IsIDValue())
}
