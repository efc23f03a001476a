package websocket

import (
	"context"
	"log/slog"
	"social-lab/contract"
	"social-lab/domain/event"
	"social-lab/errors"
	"social-lab/observability"
	"social-lab/protocol"
	"sync"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

var _ contract.EventSink = (*Session)(nil)

// Session is one connected viewer. It owns the only handle on the socket: a single
// reader dispatches requests one at a time and a single writer drains the
// outgoing queue, so frames reach the viewer in the order they were queued.
type Session struct {
	id        string
	accountID string
	conn      *ws.Conn
	send      chan protocol.Frame
	done      chan struct{}
	closeOnce sync.Once
	limiter   *rate.Limiter

	// While a request is being handled, events are held back and queued right
	// after its response, so a snapshot always reaches the viewer before the
	// events that follow it.
	mu      sync.Mutex
	holding bool
	held    []protocol.Frame

	// Posts of the current feed page and posts opened on their own. Only the
	// reader goroutine touches them.
	feed   map[string]struct{}
	pinned map[string]struct{}

	stats *observability.StatsTracker
	cfg   Config
	log   *slog.Logger
}

func newSession(conn *ws.Conn, accountID string, stats *observability.StatsTracker, cfg Config, log *slog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:        id,
		accountID: accountID,
		conn:      conn,
		send:      make(chan protocol.Frame, cfg.ConnectionBufferSize),
		done:      make(chan struct{}),
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		feed:      make(map[string]struct{}),
		pinned:    make(map[string]struct{}),
		stats:     stats,
		cfg:       cfg,
		log:       log.With("session_id", id, "account_id", accountID),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) AccountID() string { return s.accountID }

// Consume is called by the fan-out. It never blocks: a full queue drops the event
// and the viewer recovers through gap detection.
func (s *Session) Consume(_ context.Context, e event.Event) error {
	select {
	case <-s.done:
		return errors.ErrTransportUnavailable
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.holding {
		if len(s.held) >= cap(s.send) {
			return s.drop(e)
		}
		s.held = append(s.held, protocol.EventFrame(e))
		return nil
	}
	select {
	case s.send <- protocol.EventFrame(e):
		return nil
	default:
		return s.drop(e)
	}
}

// showFeed replaces the current page and returns the posts of the previous one
// that are neither on the new page nor opened on their own.
func (s *Session) showFeed(postIDs []string) []string {
	next := make(map[string]struct{}, len(postIDs))
	for _, id := range postIDs {
		next[id] = struct{}{}
	}
	var gone []string
	for id := range s.feed {
		_, kept := next[id]
		_, pinned := s.pinned[id]
		if !kept && !pinned {
			gone = append(gone, id)
		}
	}
	s.feed = next
	return gone
}

func (s *Session) pin(postID string) {
	s.pinned[postID] = struct{}{}
}

// unpin forgets an opened post and reports whether the feed still shows it.
func (s *Session) unpin(subjectID string) bool {
	delete(s.pinned, subjectID)
	return s.shown(subjectID)
}

func (s *Session) shown(postID string) bool {
	_, ok := s.feed[postID]
	return ok
}

func (s *Session) observing(postID string) bool {
	_, pinned := s.pinned[postID]
	return pinned || s.shown(postID)
}

func (s *Session) drop(e event.Event) error {
	observability.EventsDropped.WithLabelValues("session").Inc()
	s.stats.EventDropped()
	s.log.Warn("Session queue full, dropping event",
		"error", errors.ErrTransportUnavailable, "subject_id", e.SubjectID, "sequence", e.Sequence)
	return errors.ErrTransportUnavailable
}

func (s *Session) hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holding = true
}

// release queues the events held during the last request.
func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holding = false
	for _, f := range s.held {
		select {
		case s.send <- f:
		default:
			_ = s.drop(*f.Event)
		}
	}
	s.held = nil
}

// reply queues a response behind the events already queued.
func (s *Session) reply(f protocol.Frame) {
	select {
	case s.send <- f:
	case <-s.done:
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// writeLoop is the only goroutine writing on the socket.
func (s *Session) writeLoop() {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case f := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.conn.WriteJSON(f); err != nil {
				s.log.Debug("Failed to write frame", "error", err)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(ws.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			_ = s.conn.WriteControl(ws.CloseMessage,
				ws.FormatCloseMessage(ws.CloseNormalClosure, ""), time.Now().Add(time.Second))
			return
		}
	}
}

// readLoop dispatches requests in arrival order until the socket fails.
func (s *Session) readLoop(ctx context.Context, dispatch func(context.Context, *Session, protocol.Request) protocol.Frame) {
	defer s.close()

	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	})

	for {
		var req protocol.Request
		if err := s.conn.ReadJSON(&req); err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway) {
				s.log.Info("Websocket closed unexpectedly", "error", err)
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))

		if !s.limiter.Allow() {
			s.reply(protocol.Failure(req.ID, errors.Code(errors.ErrRateLimited), errors.ErrRateLimited.Error()))
			continue
		}
		s.hold()
		s.reply(dispatch(ctx, s, req))
		s.release()
	}
}
