//go:build !wasm
// +build !wasm

// Package live serves graph viewports to browsers over a websocket. The
// view runs on the server; the browser mirrors the svg patches it emits and
// reports its viewport size back.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/recera/graphview/pkg/debug"
	"github.com/recera/graphview/pkg/layout"
	"github.com/recera/graphview/pkg/metrics"
	"github.com/recera/graphview/pkg/transition"
	"github.com/recera/graphview/pkg/viewport"
)

// LivePath is the websocket endpoint prefix; a session id may follow it
const LivePath = "/live/"

// Options configures every session of a Server
type Options struct {
	TransitionDuration time.Duration
	FrameInterval      time.Duration

	// Viewport is assumed until the browser reports its own
	Viewport viewport.Size

	// Initial is rendered as soon as a session opens
	Initial layout.Frame

	Metrics *metrics.Registry
}

// Server handles WebSocket connections for live viewports
type Server struct {
	upgrader websocket.Upgrader
	opts     Options
	ctx      context.Context
	cancel   context.CancelFunc

	mu       sync.RWMutex
	sessions map[string]*Session
	current  layout.Frame
}

// NewServer creates a new live server
func NewServer(opts Options) *Server {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = transition.DefaultFrameInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
		current:  opts.Initial,
	}
}

// Handler returns the HTTP routes of the live server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc(LivePath, s.HandleWebSocket)
	mux.HandleFunc("/layout", s.handleLayout)
	if s.opts.Metrics != nil {
		mux.Handle("/metrics", s.opts.Metrics.Handler())
	}
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

// handleLayout accepts a JSON layout frame and broadcasts it
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var frame layout.Frame
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&frame); err != nil {
		http.Error(w, "invalid layout frame: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := frame.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.Broadcast(frame)
	w.WriteHeader(http.StatusNoContent)
}

// HandleWebSocket upgrades the connection and starts a session. The id is
// taken from the path after LivePath, or generated when absent. A new
// connection with an existing id replaces the old session.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.Trim(strings.TrimPrefix(r.URL.Path, LivePath), "/")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		debug.Logger().Warn("failed to upgrade connection", "error", err)
		return
	}

	session := newSession(sessionID, conn, s.opts)

	s.mu.Lock()
	if old, exists := s.sessions[sessionID]; exists {
		old.Close()
	}
	s.sessions[sessionID] = session
	initial := s.current
	s.mu.Unlock()

	s.opts.Metrics.SessionOpened()
	debug.Logger().Info("session opened", "session", sessionID)

	go session.writer()
	go session.loop(s.ctx)
	session.sendText(ServerMessage{Type: MsgHello, Session: sessionID})
	session.Apply(layout.Frame{Radius: initial.Radius})

	go func() {
		session.reader()
		s.removeSession(session)
	}()
}

func (s *Server) removeSession(session *Session) {
	s.mu.Lock()
	if s.sessions[session.ID] == session {
		delete(s.sessions, session.ID)
	}
	s.mu.Unlock()

	s.opts.Metrics.SessionClosed()
	debug.Logger().Info("session closed", "session", session.ID)
}

// Broadcast applies frame to every session and to sessions opened later
func (s *Server) Broadcast(frame layout.Frame) {
	s.mu.Lock()
	s.current = frame
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.Unlock()

	for _, session := range sessions {
		session.Apply(frame)
	}
	s.opts.Metrics.RecordLayoutBroadcast()
	debug.Logger().Info("layout broadcast", "radius", frame.Radius, "animate", frame.Animate, "sessions", len(sessions))
}

// Current returns the most recently broadcast frame
func (s *Server) Current() layout.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// GetSession retrieves a session by ID
func (s *Server) GetSession(sessionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

// SessionCount returns the number of open sessions
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close ends every session
func (s *Server) Close() {
	s.cancel()
	s.mu.RLock()
	for _, session := range s.sessions {
		session.Close()
	}
	s.mu.RUnlock()
}
