package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHubRelay(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	a, err := Dial(url)
	require.NoError(t, err)
	defer a.Close()
	b, err := Dial(url)
	require.NoError(t, err)
	defer b.Close()
	require.Eventually(t, func() bool { return hub.Peers() == 2 }, time.Second, time.Millisecond)

	require.NoError(t, a.WritePacket([]byte{1, 2, 3}))
	pkt, err := b.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, pkt)

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return hub.Peers() == 1 }, time.Second, time.Millisecond)
}
