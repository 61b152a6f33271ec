package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/game"
	"github.com/vovakirdan/bombmaster/internal/registry"
)

func init() {
	registry.Register("ws", "WebSocket stream", func(cfg config.Config, logger *log.Logger) (registry.Sink, error) {
		s, err := Listen(cfg.WebSocket, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

// envelope is the wire format of every frame.
type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server is a websocket sink: it keeps the latest snapshot and broadcasts
// every snapshot and result to connected clients.
type Server struct {
	logger *log.Logger
	hub    *Hub
	cancel context.CancelFunc
	srv    *http.Server

	mu     sync.Mutex
	latest []byte
}

// NewServer creates a server and starts its hub. Mount Handler on a mux, or
// use Listen.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		logger: logger,
		hub:    NewHub(logger, HubConfig{}),
		cancel: cancel,
	}
	go s.hub.Run(ctx)
	return s
}

// Listen starts a server on cfg.Address serving cfg.Path.
func Listen(cfg config.WebSocketConfig, logger *log.Logger) (*Server, error) {
	if cfg.Address == "" {
		return nil, errors.New("ws: no listen address configured")
	}
	s := NewServer(logger)
	path := cfg.Path
	if path == "" {
		path = "/ws"
	}
	mux := http.NewServeMux()
	mux.Handle(path, s.Handler())

	s.srv = &http.Server{Addr: cfg.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Surface immediate bind failures.
	select {
	case err := <-errCh:
		s.cancel()
		return nil, err
	case <-time.After(100 * time.Millisecond):
	}
	s.logger.Info("websocket sink listening", "address", cfg.Address, "path", path)
	return s, nil
}

// Handler upgrades requests and registers clients.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn("ws upgrade failed", "err", err)
			return
		}

		client := newClient(s.hub, conn, r.RemoteAddr)

		s.mu.Lock()
		initial := s.latest
		s.mu.Unlock()
		if initial != nil {
			initial = retype(initial, "state_init")
		}
		s.hub.add(client, initial)

		// Pumps outlive the request; the hub owns the connection lifetime.
		go client.writePump()
		go client.readPump()
	})
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	return s.hub.Clients()
}

// Publish broadcasts a snapshot.
func (s *Server) Publish(snap game.Snapshot) {
	msg, ok := s.frame("snapshot", snap.At, snap)
	if !ok {
		return
	}
	s.mu.Lock()
	s.latest = msg
	s.mu.Unlock()
	s.hub.BroadcastBytes(msg)
}

// LevelFinished broadcasts a level result.
func (s *Server) LevelFinished(res game.LevelResult) {
	if msg, ok := s.frame("level", time.Now(), res); ok {
		s.hub.BroadcastBytes(msg)
	}
}

// SessionFinished broadcasts a session result.
func (s *Server) SessionFinished(res game.SessionResult) {
	if msg, ok := s.frame("result", res.Ended, res); ok {
		s.hub.BroadcastBytes(msg)
	}
}

// Close stops the hub, disconnecting clients, and the HTTP server if any.
func (s *Server) Close() error {
	s.cancel()
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) frame(typ string, at time.Time, data any) ([]byte, bool) {
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()
	msg, err := json.Marshal(envelope{Type: typ, Ts: &at, Data: data})
	if err != nil {
		s.logger.Warn("ws marshal failed", "type", typ, "err", err)
		return nil, false
	}
	return msg, true
}

// retype re-labels a serialized envelope.
func retype(msg []byte, typ string) []byte {
	var env struct {
		Ts   *time.Time      `json:"ts,omitempty"`
		Data json.RawMessage `json:"data,omitempty"`
	}
	if err := json.Unmarshal(msg, &env); err != nil {
		return nil
	}
	out, err := json.Marshal(envelope{Type: typ, Ts: env.Ts, Data: env.Data})
	if err != nil {
		return nil
	}
	return out
}

var (
	_ registry.Sink   = (*Server)(nil)
	_ game.ResultSink = (*Server)(nil)
)
