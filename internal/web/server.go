// Package web exposes the read-only UI surface: an HTTP status endpoint and
// a websocket that pushes the low-rate shared-state snapshot plus the
// current blended environment to display clients. Nothing here mutates
// controller state.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mvaldes/emoscape/internal/blend"
	"github.com/mvaldes/emoscape/internal/config"
	"github.com/mvaldes/emoscape/internal/state"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// StatusResponse is the payload served on /api/status and pushed over /ws.
type StatusResponse struct {
	Snapshot    state.Snapshot    `json:"snapshot"`
	Environment blend.Environment `json:"environment"`
}

// Server broadcasts UI snapshots to websocket clients.
type Server struct {
	log      zerolog.Logger
	cfg      *config.Config
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	last    StatusResponse
	clients map[*wsClient]bool

	broadcast chan []byte
	httpSrv   *http.Server
}

type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
}

// NewServer creates a Server for the given immutable configuration.
func NewServer(cfg *config.Config, log zerolog.Logger) *Server {
	return &Server{
		log:     log.With().Str("component", "web").Logger(),
		cfg:     cfg,
		clients: make(map[*wsClient]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		broadcast: make(chan []byte, 64),
	}
}

// Publish stores the latest snapshot and queues it for broadcast. Called on
// the UI tick; drops the frame when the broadcast queue is full.
func (s *Server) Publish(snap state.Snapshot, env blend.Environment) {
	status := StatusResponse{Snapshot: snap, Environment: env}

	s.mu.Lock()
	s.last = status
	s.mu.Unlock()

	data, err := json.Marshal(status)
	if err != nil {
		return
	}
	select {
	case s.broadcast <- data:
	default:
	}
}

// Start serves until ctx ends, then shuts the listener down.
func (s *Server) Start(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/ws", s.handleWebSocket)

	s.httpSrv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go s.broadcastLoop(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Int("port", port).Msg("status server listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	status := s.last
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.cfg)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &wsClient{
		conn:   conn,
		send:   make(chan []byte, 64),
		server: s,
	}

	s.mu.Lock()
	s.clients[client] = true
	s.mu.Unlock()

	go client.writePump()
	go client.readPump()
}

func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case message := <-s.broadcast:
			s.mu.Lock()
			for client := range s.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(s.clients, client)
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *Server) drop(c *wsClient) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
}

// readPump discards client messages; the surface is read-only. It exists to
// notice disconnects and answer pings.
func (c *wsClient) readPump() {
	defer func() {
		c.server.drop(c)
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
