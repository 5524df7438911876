package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rawblock/wordle-engine/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy lives in the router's CORS layer
	},
}

// ProgressHub fans build progress out to websocket subscribers. Frames
// are typed models.BuildProgress, not opaque bytes, and they are
// coalescing: the solver can emit thousands of frames per second, so
// each client holds at most one undelivered frame and a newer one
// replaces it. A slow client therefore always sees the current state of
// the run, never a backlog of stale counters, and the solver never
// blocks on the network.
type ProgressHub struct {
	mu      sync.Mutex
	clients map[*progressClient]struct{}
	frames  chan models.BuildProgress
	last    *models.BuildProgress // snapshot for late subscribers
}

type progressClient struct {
	conn *websocket.Conn
	send chan models.BuildProgress // capacity 1, latest frame wins
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		clients: make(map[*progressClient]struct{}),
		frames:  make(chan models.BuildProgress, 64),
	}
}

// Publish hands a frame to the hub. It never blocks: when the hub is
// saturated the frame is dropped, because the next one supersedes it.
func (h *ProgressHub) Publish(p models.BuildProgress) {
	select {
	case h.frames <- p:
	default:
	}
}

// Run distributes solver frames to every subscriber.
func (h *ProgressHub) Run() {
	for frame := range h.frames {
		h.mu.Lock()
		f := frame
		h.last = &f
		for cl := range h.clients {
			cl.offer(frame)
		}
		h.mu.Unlock()
	}
}

// offer places a frame in the client's slot, displacing any frame the
// writer has not picked up yet.
func (cl *progressClient) offer(frame models.BuildProgress) {
	for {
		select {
		case cl.send <- frame:
			return
		default:
			select {
			case <-cl.send:
			default:
			}
		}
	}
}

// Subscribe upgrades the connection and registers a subscriber. The
// latest known frame is delivered immediately so a dashboard attaching
// mid-build starts from the current state.
func (h *ProgressHub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}

	cl := &progressClient{conn: conn, send: make(chan models.BuildProgress, 1)}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	if h.last != nil {
		cl.offer(*h.last)
	}
	total := len(h.clients)
	h.mu.Unlock()
	log.Printf("[WS] subscriber connected (%d total)", total)

	go cl.writeLoop(h)
	go h.readLoop(cl)
}

func (cl *progressClient) writeLoop(h *ProgressHub) {
	for frame := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := cl.conn.WriteJSON(frame); err != nil {
			log.Printf("[WS] write error: %v", err)
			h.drop(cl)
			return
		}
	}
}

// readLoop exists only to notice disconnects; the stream is push-only.
func (h *ProgressHub) readLoop(cl *progressClient) {
	defer h.drop(cl)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] read error: %v", err)
			}
			return
		}
	}
}

// drop unregisters a client exactly once and releases its writer.
func (h *ProgressHub) drop(cl *progressClient) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
	h.mu.Unlock()
	cl.conn.Close()
}
