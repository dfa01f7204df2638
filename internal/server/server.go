// Package server exposes the show over HTTP: a frame-stream websocket
// for preview clients and a control websocket both the desktop and VR
// consoles use. Control clients only ever produce VJ events; they never
// mutate show state directly.
package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/my-pwa-apps/vrclub/internal/club"
	"github.com/my-pwa-apps/vrclub/internal/console"
)

type Server struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	bus *console.Bus
	log zerolog.Logger

	lastFrame []byte
}

func New(bus *console.Bus, log zerolog.Logger) *Server {
	return &Server{
		clients: map[*websocket.Conn]bool{},
		bus:     bus,
		log:     log.With().Str("component", "server").Logger(),
	}
}

// Handler returns the HTTP mux for the club surfaces.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/frames", s.handleFramesWS)
	mux.HandleFunc("/ws/control", s.handleControlWS)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("control server listening")
	return http.ListenAndServe(addr, s.Handler())
}

// Broadcast pushes a frame snapshot to every preview client. Called
// from the tick loop's onFrame hook.
func (s *Server) Broadcast(fs club.FrameState) {
	data, err := json.Marshal(fs)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal frame")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFrame = data
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.log.Debug().Err(err).Msg("drop frame client")
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

func (s *Server) handleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	last := s.lastFrame
	s.mu.Unlock()

	if last != nil {
		_ = conn.WriteMessage(websocket.TextMessage, last)
	}

	// Preview clients never send payloads, but the read side still has
	// to run so close frames are handled and gone peers are reaped
	// before the next broadcast.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.dropClient(conn)
				return
			}
		}
	}()
}

func (s *Server) dropClient(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[conn] {
		conn.Close()
		delete(s.clients, conn)
	}
}

func (s *Server) handleControlWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var e console.Event
		if err := json.Unmarshal(data, &e); err != nil {
			s.log.Warn().Err(err).Msg("bad control message")
			continue
		}
		if !s.bus.Publish(e) {
			s.log.Warn().Str("event", e.Kind.String()).Msg("bus full, event dropped")
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := len(s.clients)
	s.mu.Unlock()
	_ = json.NewEncoder(w).Encode(map[string]any{
		"clients": n,
	})
}
