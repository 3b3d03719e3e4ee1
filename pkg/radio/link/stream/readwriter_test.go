package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type buffer struct {
	bytes.Buffer
	closed bool
}

func (b *buffer) Close() error {
	b.closed = true
	return nil
}

func TestWriteRead(t *testing.T) {
	buf := &buffer{}
	rw := New(buf)
	require.NoError(t, rw.WritePacket([]byte{1, 2, 3}))
	require.NoError(t, rw.WritePacket(nil))
	require.Equal(t, []byte{Sync, 3, 1, 2, 3, Sync, 0}, buf.Bytes())

	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, pkt)
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	require.Empty(t, pkt)
	_, err = rw.ReadPacket()
	require.Equal(t, io.EOF, err)

	require.NoError(t, rw.Close())
	require.True(t, buf.closed)
}

func TestResync(t *testing.T) {
	buf := &buffer{}
	buf.Write([]byte{0x00, 0x13, Sync, 0xff, Sync, 2, 0xaa, 0xbb})
	pkt, err := New(buf).ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0xaa, 0xbb}, pkt)
}

func TestTruncated(t *testing.T) {
	buf := &buffer{}
	buf.Write([]byte{Sync, 4, 1})
	_, err := New(buf).ReadPacket()
	require.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestWriteTooLarge(t *testing.T) {
	require.Equal(t, ErrPacketTooLarge, New(&buffer{}).WritePacket(make([]byte, MaxPacketSize+1)))
}
