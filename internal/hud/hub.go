// Package hud streams the session presentation to websocket clients and
// accepts their input commands.
package hud

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/deadwave/sessiond/internal/config"
	"github.com/deadwave/sessiond/internal/core/event"
	"github.com/deadwave/sessiond/internal/session"
)

// Frame is one outbound HUD message.
type Frame struct {
	Type      string  `json:"type"`
	Text      string  `json:"text,omitempty"`
	Duration  float64 `json:"duration,omitempty"` // seconds
	Panel     string  `json:"panel,omitempty"`
	PauseMenu bool    `json:"pause_menu,omitempty"`
	Degrees   float64 `json:"degrees,omitempty"`
	Seconds   float64 `json:"seconds,omitempty"`
	Phase     string  `json:"phase,omitempty"`
	Scene     *int    `json:"scene,omitempty"`
	Path      string  `json:"path,omitempty"`
	Session   string  `json:"session,omitempty"`
}

type inbound struct {
	Type  string `json:"type"`
	Scene int    `json:"scene"`
}

// Hub implements session.Presentation by broadcasting frames, and
// session.CommandSource by queueing client commands for the tick loop.
type Hub struct {
	cfg      config.HUDConfig
	log      *zap.Logger
	queue    *session.Queue
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

func NewHub(cfg config.HUDConfig, log *zap.Logger) *Hub {
	return &Hub{
		cfg:   cfg,
		log:   log,
		queue: session.NewQueue(cfg.InQueueSize),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Commands returns the queue of client commands.
func (h *Hub) Commands() <-chan session.Command {
	return h.queue.Commands()
}

// ServeHTTP upgrades the connection and serves one client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("hud upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, h.cfg.OutQueueSize)}
	if !h.register(c) {
		conn.Close()
		return
	}
	h.log.Info("hud client connected", zap.String("addr", conn.RemoteAddr().String()))

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

func (h *Hub) readLoop(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		h.log.Info("hud client disconnected", zap.String("addr", c.conn.RemoteAddr().String()))
	}()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		cmd, err := parseCommand(raw)
		if err != nil {
			h.log.Warn("hud command rejected", zap.Error(err))
			continue
		}
		if !h.queue.Push(cmd) {
			h.log.Warn("hud command queue full", zap.Stringer("command", cmd.Kind))
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	for msg := range c.send {
		if h.cfg.WriteTimeout > 0 {
			c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Debug("hud write failed", zap.Error(err))
			c.conn.Close()
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func parseCommand(raw []byte) (session.Command, error) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return session.Command{}, fmt.Errorf("decode command: %w", err)
	}
	switch in.Type {
	case "start":
		return session.Command{Kind: session.CmdStartSession}, nil
	case "toggle":
		return session.Command{Kind: session.CmdTogglePhase}, nil
	case "scene":
		return session.Command{Kind: session.CmdChangeScene, Scene: in.Scene}, nil
	case "gameover":
		return session.Command{Kind: session.CmdGameOver}, nil
	default:
		return session.Command{}, fmt.Errorf("unknown command type %q", in.Type)
	}
}

// broadcast queues f for every client. Slow clients drop frames.
func (h *Hub) broadcast(f Frame) {
	msg, err := json.Marshal(f)
	if err != nil {
		h.log.Error("hud frame encode failed", zap.String("type", f.Type), zap.Error(err))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Debug("hud client lagging, frame dropped", zap.String("type", f.Type))
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

// Subscribe forwards controller events to clients as state frames.
func (h *Hub) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(ev session.PhaseChanged) {
		scene := ev.Scene
		h.broadcast(Frame{Type: "phase", Phase: ev.To.String(), Scene: &scene})
	})
	event.Subscribe(bus, func(ev session.SceneChanged) {
		scene := ev.To
		h.broadcast(Frame{Type: "scene", Scene: &scene, Path: ev.Path, Text: ev.Kind.String()})
	})
	event.Subscribe(bus, func(ev session.SessionStarted) {
		h.broadcast(Frame{Type: "session_started", Session: ev.ID.String()})
	})
	event.Subscribe(bus, func(ev session.SessionFinished) {
		h.broadcast(Frame{Type: "session_finished", Session: ev.ID.String()})
	})
	event.Subscribe(bus, func(ev session.PlayerJoined) {
		h.broadcast(Frame{Type: "player_joined", Session: ev.ID.String()})
	})
}

func (h *Hub) ShowCenterMessage(text string, d time.Duration) {
	h.broadcast(Frame{Type: "center", Text: text, Duration: d.Seconds()})
}

func (h *Hub) HideCenterMessage() {
	h.broadcast(Frame{Type: "center_hidden"})
}

func (h *Hub) ShowPrimaryMessage(text string, d time.Duration) {
	h.broadcast(Frame{Type: "primary", Text: text, Duration: d.Seconds()})
}

func (h *Hub) CloseMenuOverlay(pauseMenu bool) {
	h.broadcast(Frame{Type: "overlay", PauseMenu: pauseMenu})
}

func (h *Hub) OpenMenuPanel(panel string) {
	h.broadcast(Frame{Type: "panel", Panel: panel})
}

func (h *Hub) SetSunAngle(degrees float64, inSession time.Duration) {
	h.broadcast(Frame{Type: "sun", Degrees: degrees, Seconds: inSession.Seconds()})
}

func (h *Hub) UseStopwatch() bool { return h.cfg.Stopwatch }

func (h *Hub) ReportElapsedTime(seconds float64) {
	h.broadcast(Frame{Type: "stopwatch", Seconds: seconds})
}
