package feed

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// HubConfig holds feed server settings.
type HubConfig struct {
	SendBuffer   int           // Snapshots queued per spectator before it is dropped
	WriteTimeout time.Duration // Deadline for one websocket write
	Every        int           // Publish every Nth tick
}

// DefaultHubConfig returns sensible defaults.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		SendBuffer:   32,
		WriteTimeout: 2 * time.Second,
		Every:        2,
	}
}

// spectator is one connected websocket client.
type spectator struct {
	ws   *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to every connected spectator.
// Publish may be called from the game loop; delivery runs on the hub goroutine.
type Hub struct {
	config   HubConfig
	log      *log.Logger
	upgrader websocket.Upgrader

	register   chan *spectator
	unregister chan *spectator
	broadcast  chan []byte
	done       chan struct{}
	stopOnce   sync.Once

	mu      sync.RWMutex
	clients map[*spectator]bool
}

// NewHub creates a hub. A nil logger discards output.
func NewHub(cfg HubConfig, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = DefaultHubConfig().SendBuffer
	}
	if cfg.Every <= 0 {
		cfg.Every = 1
	}
	return &Hub{
		config: cfg,
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		register:   make(chan *spectator),
		unregister: make(chan *spectator),
		broadcast:  make(chan []byte, 8),
		done:       make(chan struct{}),
		clients:    make(map[*spectator]bool),
	}
}

// Start begins the hub's background processing.
func (h *Hub) Start() {
	go h.run()
}

// Stop disconnects every spectator and shuts the hub down.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) run() {
	for {
		select {
		case s := <-h.register:
			h.mu.Lock()
			h.clients[s] = true
			h.mu.Unlock()
			h.log.Info("spectator connected", "remote", s.ws.RemoteAddr(), "spectators", h.Count())
		case s := <-h.unregister:
			h.drop(s)
		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*spectator
			for s := range h.clients {
				select {
				case s.send <- msg:
				default:
					slow = append(slow, s)
				}
			}
			h.mu.RUnlock()
			for _, s := range slow {
				h.log.Warn("dropping slow spectator", "remote", s.ws.RemoteAddr())
				h.drop(s)
			}
		case <-h.done:
			h.mu.Lock()
			for s := range h.clients {
				delete(h.clients, s)
				close(s.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) drop(s *spectator) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[s] {
		delete(h.clients, s)
		close(s.send)
	}
}

// Count returns the number of connected spectators.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ShouldPublish reports whether tick falls on the publish interval.
func (h *Hub) ShouldPublish(tick uint64) bool {
	return tick%uint64(h.config.Every) == 0 //#nosec G115 -- Every is always positive
}

// Publish encodes and queues a snapshot. It never blocks: when the hub is
// behind, the snapshot is dropped.
func (h *Hub) Publish(s Snapshot) error {
	if h.Count() == 0 {
		return nil
	}
	data, err := Encode(s)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
	}
	return nil
}

// ServeHTTP upgrades the request to a websocket and streams snapshots.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	s := &spectator{ws: ws, send: make(chan []byte, h.config.SendBuffer)}

	select {
	case h.register <- s:
	case <-h.done:
		ws.Close()
		return
	}
	go h.writePump(s)
	h.readPump(s)
}

// readPump discards client messages and notices disconnects.
func (h *Hub) readPump(s *spectator) {
	defer func() {
		select {
		case h.unregister <- s:
		case <-h.done:
		}
		s.ws.Close()
	}()
	for {
		if _, _, err := s.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug("spectator read error", "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(s *spectator) {
	defer s.ws.Close()
	for msg := range s.send {
		s.ws.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout)) //nolint:errcheck
		if err := s.ws.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			return
		}
	}
	s.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")) //nolint:errcheck
}

// ListenAndServe serves the feed on addr at /ws until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		h.log.Info("feed listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		h.Stop()
		return srv.Shutdown(shutdown)
	}
}
