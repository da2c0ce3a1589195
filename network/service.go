package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/turret/core"
	"github.com/lixenwraith/turret/engine"
	"github.com/lixenwraith/turret/status"
)

// Service serves read-only spectator streams over websocket
// Implements engine.RenderSink: Render encodes a frame and queues it on every peer
// without blocking the driver; slow peers drop frames
type Service struct {
	config  *Config
	reg     *status.Registry
	session func() string

	peers    *PeerManager
	upgrader websocket.Upgrader
	router   *mux.Router

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener

	frameCount atomic.Uint64
	running    atomic.Bool

	statPeers   *atomic.Int64
	statFrames  *atomic.Int64
	statErrors  *atomic.Int64
	statConnect *atomic.Int64
}

// NewService creates a spectator service; session reports the current game session id
func NewService(cfg *Config, reg *status.Registry, session func() string) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.FrameEvery < 1 {
		cfg.FrameEvery = 1
	}

	s := &Service{
		config:  cfg,
		reg:     reg,
		session: session,
		peers:   NewPeerManager(cfg),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Spectators may connect from any origin
			},
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
		},
		statPeers:   reg.Ints.Get("net.peers"),
		statFrames:  reg.Ints.Get("net.frames"),
		statErrors:  reg.Ints.Get("net.errors"),
		statConnect: reg.Ints.Get("net.connects"),
	}
	s.peers.SetHandlers(s.onConnect, s.onDisconnect)

	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router = r

	return s
}

// Router exposes the HTTP routes, used directly by tests
func (s *Service) Router() http.Handler {
	return s.router
}

// Start binds the configured address and serves in the background
// No-op when the address is empty or already started
func (s *Service) Start() error {
	if s.config.Address == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return nil
	}

	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("spectator listen %s: %w", s.config.Address, err)
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.running.Store(true)

	srv := s.server
	core.Go(func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("network: serve error: %v", err)
		}
	})
	log.Printf("network: spectator server on %s", ln.Addr())
	return nil
}

// Addr returns the bound address, empty when not running
func (s *Service) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop closes all peers and shuts the HTTP server down
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.peers.Close()
	if !s.running.Swap(false) {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.server = nil
	s.listener = nil
	return err
}

// PeerCount returns connected spectator count
func (s *Service) PeerCount() int {
	return s.peers.PeerCount()
}

// Render implements engine.RenderSink
func (s *Service) Render(snap engine.Snapshot) {
	n := s.frameCount.Add(1)
	if n%uint64(s.config.FrameEvery) != 0 || s.peers.PeerCount() == 0 {
		return
	}

	data, err := EncodeFrame(s.session(), snap)
	if err != nil {
		s.statErrors.Add(1)
		log.Printf("network: %v", err)
		return
	}
	s.peers.Broadcast(data)
	s.statFrames.Add(1)
}

// handleWebSocket upgrades a spectator connection
func (s *Service) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.statErrors.Add(1)
		log.Printf("network: websocket upgrade error: %v", err)
		return
	}

	if _, err := s.peers.AddConnection(conn); err != nil {
		log.Printf("network: rejected %s: %v", r.RemoteAddr, err)
	}
}

// handleStats returns the metrics registry as JSON
func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.reg.Snapshot()); err != nil {
		s.statErrors.Add(1)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// onConnect greets the peer before its write loop starts
func (s *Service) onConnect(p *Peer) {
	s.statPeers.Add(1)
	s.statConnect.Add(1)
	log.Printf("network: spectator %d connected from %s", p.ID, p.Addr)

	data, err := EncodeWelcome(p.ID, s.session())
	if err != nil {
		s.statErrors.Add(1)
		return
	}
	p.Send(data)
}

func (s *Service) onDisconnect(id PeerID) {
	s.statPeers.Add(-1)
	log.Printf("network: spectator %d disconnected", id)
}
