package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/CharGoon26/dwdex-battles/internal/arena"
	"github.com/CharGoon26/dwdex-battles/internal/battle"
	"github.com/CharGoon26/dwdex-battles/internal/constants"
	"github.com/CharGoon26/dwdex-battles/internal/logging"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// feedEvent is one message pushed to channel subscribers.
type feedEvent struct {
	Type   string              `json:"type"`
	Round  *battle.RoundRecord `json:"round,omitempty"`
	Result *arena.Result       `json:"result,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan feedEvent
}

// Hub fans match progress out to websocket subscribers, one subscriber set
// per channel. It implements arena.Reporter.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: map[string]map[*client]struct{}{}}
}

func (h *Hub) subscribe(channelID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[channelID] == nil {
		h.clients[channelID] = map[*client]struct{}{}
	}
	h.clients[channelID][cl] = struct{}{}
}

// unsubscribe detaches the client and closes its send channel, which stops
// the writer goroutine. Whoever removes the client from the set closes the
// channel, so it is closed exactly once.
func (h *Hub) unsubscribe(channelID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[channelID]
	if !ok {
		return
	}
	if _, in := set[cl]; in {
		delete(set, cl)
		close(cl.send)
	}
	if len(set) == 0 {
		delete(h.clients, channelID)
	}
}

// broadcast pushes the event to every subscriber. Slow subscribers are
// dropped rather than blocking the match.
func (h *Hub) broadcast(channelID string, ev feedEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[channelID]
	for cl := range set {
		select {
		case cl.send <- ev:
		default:
			delete(set, cl)
			close(cl.send)
		}
	}
}

func (h *Hub) RoundResolved(channelID string, rec battle.RoundRecord) {
	h.broadcast(channelID, feedEvent{Type: "round", Round: &rec})
}

func (h *Hub) MatchFinished(channelID string, res arena.Result) {
	h.broadcast(channelID, feedEvent{Type: "finished", Result: &res})
}

// Feed upgrades the request and streams round events for the channel.
func (h *Handler) Feed(c *gin.Context) {
	channelID := c.Param("channelID")
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, logging.Fields{constants.LogFieldChannelID: channelID})
		return
	}
	cl := &client{conn: conn, send: make(chan feedEvent, 16)}
	h.hub.subscribe(channelID, cl)

	go func() {
		defer conn.Close()
		for ev := range cl.send {
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}()

	// Reader loop: the feed is one-way, we only watch for disconnects.
	go func() {
		defer h.hub.unsubscribe(channelID, cl)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
