//go:build !wasm
// +build !wasm

package live

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/recera/graphview/pkg/debug"
	"github.com/recera/graphview/pkg/layout"
	"github.com/recera/graphview/pkg/metrics"
	"github.com/recera/graphview/pkg/svg"
	"github.com/recera/graphview/pkg/transition"
	"github.com/recera/graphview/pkg/viewport"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 300 * time.Second
	pingInterval = 54 * time.Second
)

// outbound is a queued websocket message; binary and text frames share one
// queue so a rendered notice never overtakes the patches before it
type outbound struct {
	messageType int
	data        []byte
}

// Session is one browser connection. It owns a document, a scheduler and a
// view; all of them are only touched by the session loop goroutine.
type Session struct {
	ID string

	conn    *websocket.Conn
	metrics *metrics.Registry
	frame   time.Duration

	doc    *svg.Document
	oracle *viewport.StaticOracle
	sched  *transition.Scheduler
	view   *viewport.View

	// pending collects patches between flushes; loop goroutine only
	pending  []svg.Patch
	radius   float64
	rendered bool
	seq      uint64

	commands  chan func()
	sendChan  chan outbound
	closeChan chan struct{}
	closeOnce sync.Once
}

func newSession(id string, conn *websocket.Conn, opts Options) *Session {
	s := &Session{
		ID:        id,
		conn:      conn,
		metrics:   opts.Metrics,
		frame:     opts.FrameInterval,
		doc:       svg.NewDocument(),
		oracle:    viewport.NewStaticOracle(opts.Viewport.Width(), opts.Viewport.Height()),
		commands:  make(chan func(), 64),
		sendChan:  make(chan outbound, 256),
		closeChan: make(chan struct{}),
	}
	s.sched = transition.NewScheduler(transition.WithObserver(opts.Metrics))

	factory := viewport.NewFactory(opts.TransitionDuration, &viewport.Options{
		Scheduler: s.sched,
		Oracle:    s.oracle,
		Metrics:   opts.Metrics,
	})
	s.view = factory.New(s.doc.NewRoot("svg"))

	// the first frame carries the whole tree
	s.pending = s.doc.Snapshot()
	s.doc.Subscribe(func(p svg.Patch) { s.pending = append(s.pending, p) })
	return s
}

// Close stops the session loop and writer
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closeChan)
		s.conn.Close()
	})
}

// Done is closed when the session ends
func (s *Session) Done() <-chan struct{} { return s.closeChan }

// do queues fn on the session loop. It reports false when the session is
// closed.
func (s *Session) do(fn func()) bool {
	select {
	case s.commands <- fn:
		return true
	case <-s.closeChan:
		return false
	}
}

// Apply queues a layout frame for this session
func (s *Session) Apply(frame layout.Frame) bool {
	return s.do(func() { s.apply(frame) })
}

func (s *Session) apply(frame layout.Frame) {
	s.radius = frame.Radius
	s.rendered = true
	if !frame.Animate {
		s.view.Render(frame.Radius)
		return
	}

	s.seq++
	seq := s.seq
	c := s.view.RenderWithTransition(frame.Radius)
	go func() {
		select {
		case <-c.Done():
			s.do(func() {
				s.flush()
				s.sendText(ServerMessage{Type: MsgRendered, Seq: seq, Radius: frame.Radius})
			})
		case <-c.Superseded():
		case <-s.closeChan:
		}
	}()
}

// resync replaces unsent patches with the full tree. The resync notice is
// queued first so the client clears its mirror before the snapshot lands.
func (s *Session) resync() {
	s.sendText(ServerMessage{Type: MsgResync})
	s.pending = s.doc.Snapshot()
}

func (s *Session) setViewport(size viewport.Size) {
	s.oracle.Set(size)
	if s.rendered {
		s.view.Render(s.radius)
	}
}

// loop serializes commands and animation frames
func (s *Session) loop(ctx context.Context) {
	ticker := time.NewTicker(s.frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-s.closeChan:
			return
		case fn := <-s.commands:
			fn()
		case <-ticker.C:
			if s.sched.Active() > 0 {
				s.sched.Tick(s.sched.Now())
			}
		}
		s.flush()
	}
}

func (s *Session) flush() {
	if len(s.pending) == 0 {
		return
	}
	patches := s.pending
	s.pending = nil

	frame, err := EncodePatches(patches)
	if err != nil {
		debug.Logger().Warn("failed to encode patches", "session", s.ID, "error", err)
		return
	}
	select {
	case s.sendChan <- outbound{websocket.BinaryMessage, frame}:
		s.metrics.RecordPatchesSent(len(patches))
	case <-s.closeChan:
	}
}

func (s *Session) sendText(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case s.sendChan <- outbound{websocket.TextMessage, data}:
	case <-s.closeChan:
	}
}

// writer handles writing messages to the WebSocket
func (s *Session) writer() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case message := <-s.sendChan:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(message.messageType, message.data); err != nil {
				debug.Logger().Warn("failed to write message", "session", s.ID, "error", err)
				s.Close()
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}

		case <-s.closeChan:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// reader processes client messages until the connection fails
func (s *Session) reader() {
	defer s.Close()

	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				debug.Logger().Warn("unexpected close", "session", s.ID, "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		s.handleTextMessage(data)
	}
}

func (s *Session) handleTextMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		debug.Logger().Warn("malformed client message", "session", s.ID, "error", err)
		return
	}

	switch msg.Type {
	case MsgViewport:
		size := msg.Size()
		s.do(func() { s.setViewport(size) })
	case MsgResync:
		s.do(s.resync)
	default:
		debug.Logger().Warn("unknown client message", "session", s.ID, "type", msg.Type)
	}
}
