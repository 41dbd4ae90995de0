package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"quant_architect/internal/dashboard"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Dashboard is served from the same binary
	},
}

// WSMessage is one frame of the live feed.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub pushes dashboard snapshots to connected browsers. Bursts of changes
// are coalesced and sent at most once per throttle interval; the latest
// state is always delivered.
type Hub struct {
	dash    *dashboard.Dashboard
	limiter *rate.Limiter
	logger  zerolog.Logger
	changed chan struct{}
	unsub   func()

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

func NewHub(dash *dashboard.Dashboard, throttle time.Duration, logger zerolog.Logger) *Hub {
	limit := rate.Inf
	if throttle > 0 {
		limit = rate.Every(throttle)
	}
	h := &Hub{
		dash:    dash,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
		changed: make(chan struct{}, 1),
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
	h.unsub = dash.Subscribe(h.trigger)
	return h
}

// Run broadcasts until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.unsub()
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.changed:
			if err := h.limiter.Wait(ctx); err != nil {
				return
			}
			h.broadcast(h.dash.Snapshot())
		}
	}
}

func (h *Hub) trigger() {
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

// HandleWebSocket upgrades the request and sends the current snapshot.
func (h *Hub) HandleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return nil
	}

	mu := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = mu
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug().Int("clients", count).Msg("WebSocket client connected")

	if data, err := encodeSnapshot(h.dash.Snapshot()); err == nil {
		h.send(conn, mu, data)
	}

	defer h.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket error")
			}
			return nil
		}
	}
}

func (h *Hub) broadcast(s dashboard.Snapshot) {
	data, err := encodeSnapshot(s)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal snapshot")
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	mutexes := make([]*sync.Mutex, 0, len(h.clients))
	for conn, mu := range h.clients {
		conns = append(conns, conn)
		mutexes = append(mutexes, mu)
	}
	h.mu.RUnlock()

	for i, conn := range conns {
		h.send(conn, mutexes[i], data)
	}
}

func (h *Hub) send(conn *websocket.Conn, mu *sync.Mutex, data []byte) {
	mu.Lock()
	defer mu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to send snapshot to client")
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	count := len(h.clients)
	h.mu.Unlock()
	conn.Close()
	h.logger.Debug().Int("remaining", count).Msg("WebSocket client disconnected")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, mu := range h.clients {
		mu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		mu.Unlock()
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]*sync.Mutex)
}

func encodeSnapshot(s dashboard.Snapshot) ([]byte, error) {
	return json.Marshal(WSMessage{Type: "snapshot", Payload: s})
}
