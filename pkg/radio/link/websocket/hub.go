package websocket

import (
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// Hub relays every packet from one peer to all other peers, acting as
// the shared air for nodes connected over websocket.
type Hub struct {
	lock  sync.RWMutex
	peers map[*ReadWriter]struct{}
}

// NewHub creates a Hub.
func NewHub() *Hub {
	return &Hub{peers: make(map[*ReadWriter]struct{})}
}

// Handler returns the http handler accepting peers.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.serve)
}

// Peers returns the number of connected peers.
func (h *Hub) Peers() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.peers)
}

func (h *Hub) serve(conn *websocket.Conn) {
	peer := New(conn)
	h.lock.Lock()
	h.peers[peer] = struct{}{}
	h.lock.Unlock()
	glog.Infof("hub: peer %s connected", conn.Request().RemoteAddr)

	defer func() {
		h.lock.Lock()
		delete(h.peers, peer)
		h.lock.Unlock()
		peer.Close()
		glog.Infof("hub: peer %s disconnected", conn.Request().RemoteAddr)
	}()

	for {
		pkt, err := peer.ReadPacket()
		if err != nil {
			return
		}
		h.relay(peer, pkt)
	}
}

func (h *Hub) relay(from *ReadWriter, pkt []byte) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	for peer := range h.peers {
		if peer == from {
			continue
		}
		if err := peer.WritePacket(pkt); err != nil {
			glog.V(2).Infof("hub: relay: %v", err)
		}
	}
}
